package sessions

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Cookie writes and reads the session id cookie.
type Cookie struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
	TTL      time.Duration
}

func (c Cookie) Set(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    s.ID.String(),
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

func (c Cookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

// ID returns the session id carried by r, if the cookie is present and well formed.
func (c Cookie) ID(r *http.Request) (uuid.UUID, bool) {
	ck, err := r.Cookie(c.Name)
	if err != nil || ck.Value == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(ck.Value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
