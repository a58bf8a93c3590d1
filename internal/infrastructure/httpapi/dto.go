package httpapi

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/ersonp/filmorate/internal/domain/entities"
)

type workRequest struct {
	ID          int64  `json:"id" validate:"gte=0"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"max=200"`
	ReleaseDate string `json:"releaseDate" validate:"required,datetime=2006-01-02"`
	Duration    int    `json:"duration" validate:"gt=0"`
}

func (r *workRequest) toEntity() *entities.Work {
	released, _ := entities.ParseDate(r.ReleaseDate)
	return &entities.Work{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ReleaseDate: released,
		Duration:    r.Duration,
	}
}

type participantRequest struct {
	ID       int64  `json:"id" validate:"gte=0"`
	Email    string `json:"email" validate:"required,email"`
	Login    string `json:"login" validate:"required,nospace"`
	Name     string `json:"name"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

func (r *participantRequest) toEntity() *entities.Participant {
	var birthday time.Time
	if r.Birthday != "" {
		birthday, _ = entities.ParseDate(r.Birthday)
	}
	return &entities.Participant{
		ID:       r.ID,
		Email:    r.Email,
		Login:    r.Login,
		Name:     r.Name,
		Birthday: birthday,
	}
}

type workResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ReleaseDate string  `json:"releaseDate"`
	Duration    int     `json:"duration"`
	Likes       []int64 `json:"likes"`
}

func newWorkResponse(w *entities.Work) workResponse {
	return workResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		ReleaseDate: formatDate(w.ReleaseDate),
		Duration:    w.Duration,
		Likes:       w.Likes.Sorted(),
	}
}

func newWorkResponses(ws []entities.Work) []workResponse {
	out := make([]workResponse, 0, len(ws))
	for i := range ws {
		out = append(out, newWorkResponse(&ws[i]))
	}
	return out
}

type participantResponse struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Birthday string  `json:"birthday,omitempty"`
	Friends  []int64 `json:"friends"`
}

func newParticipantResponse(p *entities.Participant) participantResponse {
	return participantResponse{
		ID:       p.ID,
		Email:    p.Email,
		Login:    p.Login,
		Name:     p.Name,
		Birthday: formatDate(p.Birthday),
		Friends:  p.Friends.Sorted(),
	}
}

func newParticipantResponses(ps []entities.Participant) []participantResponse {
	out := make([]participantResponse, 0, len(ps))
	for i := range ps {
		out = append(out, newParticipantResponse(&ps[i]))
	}
	return out
}

type likeResponse struct {
	Added bool `json:"added"`
}

type healthResponse struct {
	Status       string `json:"status"`
	Works        int    `json:"works"`
	Participants int    `json:"participants"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(entities.DateLayout)
}

// newValidator reports fields by their JSON names and knows the nospace rule.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) < 0
	})
	return v
}

// toValidationErrors converts validator output into the domain failure type.
func toValidationErrors(err error) error {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := make(entities.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, entities.ValidationError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "nospace":
		return "must not contain whitespace"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
