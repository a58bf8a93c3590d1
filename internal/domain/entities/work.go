// Package entities contains core domain data structures.
package entities

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxDescriptionLength bounds Work.Description, counted in characters.
const MaxDescriptionLength = 200

// EarliestReleaseDate is the first public film screening; no work may be
// released before it.
var EarliestReleaseDate = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)

// Work is a catalogued film.
type Work struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ReleaseDate time.Time `json:"releaseDate"`
	Duration    int       `json:"duration"` // minutes
	Likes       IDSet     `json:"likes"`
}

// Validate checks the field rules of a work. The returned error wraps
// ErrValidation and lists every failing field.
func (w *Work) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(w.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name must not be blank"})
	}
	if utf8.RuneCountInString(w.Description) > MaxDescriptionLength {
		errs = append(errs, ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength),
		})
	}
	switch {
	case w.ReleaseDate.IsZero():
		errs = append(errs, ValidationError{Field: "releaseDate", Message: "release date is required"})
	case ToDate(w.ReleaseDate).Before(EarliestReleaseDate):
		errs = append(errs, ValidationError{
			Field:   "releaseDate",
			Message: "release date must not be before " + EarliestReleaseDate.Format(DateLayout),
		})
	}
	if w.Duration <= 0 {
		errs = append(errs, ValidationError{Field: "duration", Message: "duration must be positive"})
	}

	return errs.orNil()
}

// LikeCount returns the number of participants who liked the work.
func (w *Work) LikeCount() int {
	return w.Likes.Len()
}

// Clone returns a deep copy of w.
func (w *Work) Clone() Work {
	c := *w
	c.Likes = w.Likes.Clone()
	return c
}
