package auth

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/lingua-web/pkg/web"
)

// MinPassword is the shortest accepted password, in characters.
const MinPassword = 8

// User is the signed-in identity as reported by the backend.
type User struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// tokenResponse is returned by sign-in and registration.
type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *LoginCommand) Validate() web.FormErrors {
	c.Email = strings.TrimSpace(c.Email)
	errs := web.FormErrors{}
	validateEmail(errs, c.Email)
	if c.Password == "" {
		errs.Add("password", "Enter your password.")
	}
	return errs
}

type RegisterCommand struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"-"`
}

func (c *RegisterCommand) Validate() web.FormErrors {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)

	errs := web.FormErrors{}
	switch {
	case c.Name == "":
		errs.Add("name", "Enter your name.")
	case utf8.RuneCountInString(c.Name) > 100:
		errs.Add("name", "Name must be 100 characters or fewer.")
	}
	validateEmail(errs, c.Email)
	validatePassword(errs, c.Password, c.Confirm)
	return errs
}

type ResetCommand struct {
	Token    string `json:"token"`
	Password string `json:"password"`
	Confirm  string `json:"-"`
}

func (c *ResetCommand) Validate() web.FormErrors {
	errs := web.FormErrors{}
	if strings.TrimSpace(c.Token) == "" {
		errs.Add("token", "The reset link is incomplete.")
	}
	validatePassword(errs, c.Password, c.Confirm)
	return errs
}

// ValidEmail reports whether s is a bare address such as ana@example.com.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	_, domain, _ := strings.Cut(s, "@")
	return strings.Contains(domain, ".")
}

func validateEmail(errs web.FormErrors, email string) {
	switch {
	case email == "":
		errs.Add("email", "Enter your email address.")
	case !ValidEmail(email):
		errs.Add("email", "Enter a valid email address.")
	}
}

func validatePassword(errs web.FormErrors, password, confirm string) {
	switch {
	case password == "":
		errs.Add("password", "Enter a password.")
	case utf8.RuneCountInString(password) < MinPassword:
		errs.Add("password", "Password must be at least 8 characters.")
	}
	if confirm != password {
		errs.Add("password_confirm", "Passwords do not match.")
	}
}
