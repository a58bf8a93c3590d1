package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ersonp/filmorate/internal/domain/entities"
	"github.com/ersonp/filmorate/internal/infrastructure/parsers"
)

// Seed file sections, as reported in SeedError.
const (
	SectionParticipants = "participants"
	SectionWorks        = "works"
	SectionFriendships  = "friendships"
	SectionLikes        = "likes"
)

// SeedOptions controls seed loading.
type SeedOptions struct {
	Format string // "json", "yaml", or "auto"
}

// SeedError describes one seed record that could not be loaded.
type SeedError struct {
	Section string `json:"section"`
	Index   int    `json:"index"` // 1-based position within the section
	Ref     string `json:"ref,omitempty"`
	Message string `json:"message"`
}

func (e SeedError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s #%d (%s): %s", e.Section, e.Index, e.Ref, e.Message)
	}
	return fmt.Sprintf("%s #%d: %s", e.Section, e.Index, e.Message)
}

// SeedResult counts the records loaded from a seed.
type SeedResult struct {
	Participants int
	Works        int
	Friendships  int
	Likes        int
	Errors       []SeedError
}

// SeedHandler preloads the catalog from a seed file. Records go through the
// regular facades, so every validation and uniqueness rule applies. A bad
// record is reported in the result and loading carries on.
type SeedHandler struct {
	works        *WorkHandler
	participants *ParticipantHandler
	log          logrus.FieldLogger
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(works *WorkHandler, participants *ParticipantHandler, log logrus.FieldLogger) *SeedHandler {
	return &SeedHandler{
		works:        works,
		participants: participants,
		log:          log.WithField("component", "seed"),
	}
}

// Handle loads the seed file at filePath.
func (h *SeedHandler) Handle(ctx context.Context, filePath string, opts SeedOptions) (*SeedResult, error) {
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	seed, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	return h.Load(ctx, seed)
}

// Load stores the records of seed. Participants and works are created first,
// then friendships and likes are resolved through their refs.
func (h *SeedHandler) Load(ctx context.Context, seed *parsers.Seed) (*SeedResult, error) {
	result := &SeedResult{}
	if seed == nil {
		return result, nil
	}

	participantIDs, err := h.loadParticipants(ctx, seed.Participants, result)
	if err != nil {
		return nil, err
	}
	workIDs, err := h.loadWorks(ctx, seed.Works, result)
	if err != nil {
		return nil, err
	}
	if err := h.loadFriendships(ctx, seed.Friendships, participantIDs, result); err != nil {
		return nil, err
	}
	if err := h.loadLikes(ctx, seed.Likes, participantIDs, workIDs, result); err != nil {
		return nil, err
	}

	h.log.WithFields(logrus.Fields{
		"participants": result.Participants,
		"works":        result.Works,
		"friendships":  result.Friendships,
		"likes":        result.Likes,
		"errors":       len(result.Errors),
	}).Info("seed loaded")
	return result, nil
}

func (h *SeedHandler) loadParticipants(ctx context.Context, raws []parsers.RawParticipant, result *SeedResult) (map[string]int64, error) {
	ids := make(map[string]int64, len(raws))
	for i := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := &raws[i]
		fail := func(msg string) {
			result.Errors = append(result.Errors, SeedError{Section: SectionParticipants, Index: i + 1, Ref: raw.Ref, Message: msg})
		}

		if _, dup := ids[raw.Ref]; dup {
			fail("ref is used more than once")
			continue
		}

		birthday, err := parseOptionalDate(raw.Birthday)
		if err != nil {
			fail("birthday: " + err.Error())
			continue
		}

		created, err := h.participants.HandleCreate(ctx, &entities.Participant{
			Email:    raw.Email,
			Login:    raw.Login,
			Name:     raw.Name,
			Birthday: birthday,
		})
		if err != nil {
			fail(err.Error())
			continue
		}

		ids[raw.Ref] = created.ID
		result.Participants++
	}
	return ids, nil
}

func (h *SeedHandler) loadWorks(ctx context.Context, raws []parsers.RawWork, result *SeedResult) (map[string]int64, error) {
	ids := make(map[string]int64, len(raws))
	for i := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := &raws[i]
		fail := func(msg string) {
			result.Errors = append(result.Errors, SeedError{Section: SectionWorks, Index: i + 1, Ref: raw.Ref, Message: msg})
		}

		if _, dup := ids[raw.Ref]; dup {
			fail("ref is used more than once")
			continue
		}

		released, err := parseOptionalDate(raw.ReleaseDate)
		if err != nil {
			fail("releaseDate: " + err.Error())
			continue
		}

		created, err := h.works.HandleCreate(ctx, &entities.Work{
			Name:        raw.Name,
			Description: raw.Description,
			ReleaseDate: released,
			Duration:    raw.Duration,
		})
		if err != nil {
			fail(err.Error())
			continue
		}

		ids[raw.Ref] = created.ID
		result.Works++
	}
	return ids, nil
}

func (h *SeedHandler) loadFriendships(ctx context.Context, raws []parsers.RawFriendship, participants map[string]int64, result *SeedResult) error {
	for i := range raws {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw := &raws[i]
		ref := raw.Participant + "~" + raw.Friend
		fail := func(msg string) {
			result.Errors = append(result.Errors, SeedError{Section: SectionFriendships, Index: i + 1, Ref: ref, Message: msg})
		}

		a, ok := participants[raw.Participant]
		if !ok {
			fail(fmt.Sprintf("unknown participant ref %q", raw.Participant))
			continue
		}
		b, ok := participants[raw.Friend]
		if !ok {
			fail(fmt.Sprintf("unknown participant ref %q", raw.Friend))
			continue
		}

		if err := h.participants.HandleAddFriend(ctx, a, b); err != nil {
			fail(err.Error())
			continue
		}
		result.Friendships++
	}
	return nil
}

func (h *SeedHandler) loadLikes(ctx context.Context, raws []parsers.RawLike, participants, works map[string]int64, result *SeedResult) error {
	for i := range raws {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw := &raws[i]
		ref := raw.Participant + "->" + raw.Work
		fail := func(msg string) {
			result.Errors = append(result.Errors, SeedError{Section: SectionLikes, Index: i + 1, Ref: ref, Message: msg})
		}

		workID, ok := works[raw.Work]
		if !ok {
			fail(fmt.Sprintf("unknown work ref %q", raw.Work))
			continue
		}
		participantID, ok := participants[raw.Participant]
		if !ok {
			fail(fmt.Sprintf("unknown participant ref %q", raw.Participant))
			continue
		}

		if _, err := h.works.HandleAddLike(ctx, workID, participantID); err != nil {
			fail(err.Error())
			continue
		}
		result.Likes++
	}
	return nil
}

// parseOptionalDate returns the zero time for a blank value.
func parseOptionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	t, err := entities.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected %s", entities.DateLayout)
	}
	return t, nil
}
