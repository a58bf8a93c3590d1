package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
}

func TestParticipant_Validate(t *testing.T) {
	fixedNow(t, time.Date(2024, time.June, 15, 13, 0, 0, 0, time.UTC))

	tests := []struct {
		name      string
		p         Participant
		wantField string
	}{
		{
			name: "valid participant",
			p:    Participant{Email: "neo@example.com", Login: "neo", Birthday: time.Date(1964, 9, 2, 0, 0, 0, 0, time.UTC)},
		},
		{
			name: "birthday unknown",
			p:    Participant{Email: "neo@example.com", Login: "neo"},
		},
		{
			name: "birthday today",
			p:    Participant{Email: "neo@example.com", Login: "neo", Birthday: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:      "birthday tomorrow",
			p:         Participant{Email: "neo@example.com", Login: "neo", Birthday: time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)},
			wantField: "birthday",
		},
		{
			name:      "blank email",
			p:         Participant{Email: " ", Login: "neo"},
			wantField: "email",
		},
		{
			name:      "malformed email",
			p:         Participant{Email: "neo.example.com", Login: "neo"},
			wantField: "email",
		},
		{
			name:      "email with display name",
			p:         Participant{Email: "Neo <neo@example.com>", Login: "neo"},
			wantField: "email",
		},
		{
			name:      "blank login",
			p:         Participant{Email: "neo@example.com"},
			wantField: "login",
		},
		{
			name:      "login with space",
			p:         Participant{Email: "neo@example.com", Login: "the one"},
			wantField: "login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Contains(t, verrs.Fields(), tt.wantField)
		})
	}
}

func TestParticipant_ResolveName(t *testing.T) {
	p := Participant{Login: "trinity", Name: "  "}
	p.ResolveName()
	assert.Equal(t, "trinity", p.Name)

	p = Participant{Login: "trinity", Name: "Trinity"}
	p.ResolveName()
	assert.Equal(t, "Trinity", p.Name)
}

func TestLowerKey(t *testing.T) {
	assert.Equal(t, LowerKey("A@X.com"), LowerKey("a@x.COM"))
	assert.Equal(t, "straße", LowerKey("STRAßE"))
	assert.NotEqual(t, LowerKey("Straße"), LowerKey("STRASSE"))
	assert.NotEqual(t, LowerKey(" Matrix "), LowerKey("matrix"), "whitespace is kept")
	assert.NotEqual(t, LowerKey("Matrix"), LowerKey("Matrix Reloaded"))
}

func TestToDate(t *testing.T) {
	in := time.Date(1999, 3, 31, 23, 59, 0, 0, time.FixedZone("X", 3*3600))
	assert.Equal(t, time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC), ToDate(in))
	assert.True(t, ToDate(time.Time{}).IsZero())
}
