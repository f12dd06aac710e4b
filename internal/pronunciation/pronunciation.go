package pronunciation

import (
	"io"
	"mime"
	"strings"

	"github.com/google/uuid"
)

// MaxReference is the longest accepted reference text, in code points.
const MaxReference = 500

// Word is the assessment of one word of the reference text.
type Word struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
	Error string  `json:"error,omitempty"`
}

// Response is the backend's pronunciation assessment. Scores are 0..100.
type Response struct {
	Score        float64 `json:"score"`
	Accuracy     float64 `json:"accuracy"`
	Fluency      float64 `json:"fluency"`
	Completeness float64 `json:"completeness"`
	Transcript   string  `json:"transcript"`
	Words        []Word  `json:"words"`
}

// Mispronounced returns the words the backend flagged.
func (r *Response) Mispronounced() []Word {
	var out []Word
	for _, w := range r.Words {
		if w.Error != "" {
			out = append(out, w)
		}
	}
	return out
}

// Audio is an uploaded recording.
type Audio struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Assessment pairs the result with the stored recording so the page can
// replay it.
type Assessment struct {
	Reference string
	Recording uuid.UUID
	Result    *Response
}

// IsAudio reports whether contentType names an audio media type.
func IsAudio(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "audio/")
}
