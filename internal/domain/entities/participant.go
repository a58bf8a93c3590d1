package entities

import (
	"net/mail"
	"strings"
	"time"
	"unicode"
)

// Participant is a user of the catalog.
type Participant struct {
	ID       int64     `json:"id"`
	Email    string    `json:"email"`
	Login    string    `json:"login"`
	Name     string    `json:"name"`
	Birthday time.Time `json:"birthday"`
	Friends  IDSet     `json:"friends"`
}

// Validate checks the field rules of a participant. A zero Birthday means
// unknown and is accepted.
func (p *Participant) Validate() error {
	var errs ValidationErrors

	email := strings.TrimSpace(p.Email)
	switch {
	case email == "":
		errs = append(errs, ValidationError{Field: "email", Message: "email must not be blank"})
	case !validEmail(email):
		errs = append(errs, ValidationError{Field: "email", Message: "email is not a valid address"})
	}

	switch {
	case p.Login == "":
		errs = append(errs, ValidationError{Field: "login", Message: "login must not be blank"})
	case strings.IndexFunc(p.Login, unicode.IsSpace) >= 0:
		errs = append(errs, ValidationError{Field: "login", Message: "login must not contain whitespace"})
	}

	if !p.Birthday.IsZero() && ToDate(p.Birthday).After(today()) {
		errs = append(errs, ValidationError{Field: "birthday", Message: "birthday must not be in the future"})
	}

	return errs.orNil()
}

// ResolveName falls back to the login when the display name is blank.
func (p *Participant) ResolveName() {
	if strings.TrimSpace(p.Name) == "" {
		p.Name = p.Login
	}
}

// Clone returns a deep copy of p.
func (p *Participant) Clone() Participant {
	c := *p
	c.Friends = p.Friends.Clone()
	return c
}

// validEmail accepts a bare addr-spec only, rejecting display-name forms.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && addr.Name == ""
}
