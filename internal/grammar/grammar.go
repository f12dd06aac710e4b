package grammar

// Error is one issue found in the checked text. Offset and Length count
// Unicode code points.
type Error struct {
	Offset      int      `json:"offset"`
	Length      int      `json:"length"`
	Message     string   `json:"message"`
	Rule        string   `json:"rule"`
	Suggestions []string `json:"suggestions"`
}

// Response is the backend's check result.
type Response struct {
	Text   string  `json:"text"`
	Errors []Error `json:"errors"`
}

// Segment is a run of the original text, highlighted when Error is set.
type Segment struct {
	Text  string `json:"text"`
	Error *Error `json:"error,omitempty"`
}
