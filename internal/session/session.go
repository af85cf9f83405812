package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"campaign_ai_server/internal/types"
)

// Generator produces a campaign for one set of form values.
type Generator interface {
	GenerateCampaign(ctx context.Context, input types.CampaignInput, platforms types.PlatformSelection) (*types.CampaignResult, error)
}

const unknownErrorMessage = "An unknown error occurred."

// Session is one user's form: the editable inputs, the platform toggles and
// the single current-result slot. At most one generation runs at a time.
type Session struct {
	mu sync.Mutex

	id        string
	input     types.CampaignInput
	platforms types.PlatformSelection
	revision  uint64

	inFlight bool
	token    uint64

	result         *types.CampaignResult
	resultRevision uint64
	errMessage     string

	now       func() time.Time
	createdAt time.Time
	touchedAt time.Time
}

// Snapshot is a consistent copy of a session's state.
type Snapshot struct {
	ID         string                  `json:"id"`
	Input      types.CampaignInput     `json:"input"`
	Platforms  types.PlatformSelection `json:"platforms"`
	Revision   uint64                  `json:"revision"`
	CanSubmit  bool                    `json:"canSubmit"`
	Generating bool                    `json:"generating"`
	Result     *types.CampaignResult   `json:"result"`
	Error      string                  `json:"error,omitempty"`
	Stale      bool                    `json:"stale"`
	CreatedAt  time.Time               `json:"createdAt"`
	UpdatedAt  time.Time               `json:"updatedAt"`
}

// InputPatch is a partial edit of the text fields. Nil fields are left untouched.
type InputPatch struct {
	ProductDescription *string `json:"productDescription"`
	BrandVoice         *string `json:"brandVoice"`
	AuthorName         *string `json:"authorName"`
}

func newSession(id string, now func() time.Time) *Session {
	t := now()
	return &Session{
		id:        id,
		input:     types.DefaultInput(),
		platforms: types.DefaultPlatforms(),
		now:       now,
		createdAt: t,
		touchedAt: t,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = s.now()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	var result *types.CampaignResult
	if s.result != nil {
		r := *s.result
		result = &r
	}
	return Snapshot{
		ID:         s.id,
		Input:      s.input,
		Platforms:  s.platforms,
		Revision:   s.revision,
		CanSubmit:  !s.inFlight && s.input.Complete(),
		Generating: s.inFlight,
		Result:     result,
		Error:      s.errMessage,
		Stale:      s.result != nil && s.resultRevision != s.revision,
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.touchedAt,
	}
}

// Update applies edits to the text fields and platform toggles. Edits are
// allowed while a generation is running; its result is still applied and
// reported as stale.
func (s *Session) Update(input InputPatch, platforms types.PlatformPatch) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.input
	beforePlatforms := s.platforms
	if input.ProductDescription != nil {
		s.input.ProductDescription = *input.ProductDescription
	}
	if input.BrandVoice != nil {
		s.input.BrandVoice = *input.BrandVoice
	}
	if input.AuthorName != nil {
		s.input.AuthorName = *input.AuthorName
	}
	s.platforms = platforms.Apply(s.platforms)
	if s.input != before || s.platforms != beforePlatforms {
		s.revision++
	}
	s.touchedAt = s.now()
	return s.snapshotLocked()
}

// CanSubmit mirrors the enabled state of the generate control.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.inFlight && s.input.Complete()
}

// Submit runs one generation with the current form values. The previous
// result and error are cleared when the request is issued; when it resolves
// exactly one of them is set again. If the session was reset meanwhile the
// outcome is dropped and ErrStale returned.
func (s *Session) Submit(ctx context.Context, gen Generator) (Snapshot, error) {
	s.mu.Lock()
	if s.inFlight {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrInFlight
	}
	if missing := s.input.MissingFields(); len(missing) > 0 {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, fmt.Errorf("%w: missing %s", ErrIncompleteInput, strings.Join(missing, ", "))
	}
	s.token++
	token := s.token
	revision := s.revision
	input, platforms := s.input, s.platforms
	s.inFlight = true
	s.result = nil
	s.errMessage = ""
	s.touchedAt = s.now()
	s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			s.finish(token, nil, revision, fmt.Errorf("generation panicked: %v", p))
			panic(p)
		}
	}()
	result, err := gen.GenerateCampaign(ctx, input, platforms)

	return s.finish(token, result, revision, err)
}

func (s *Session) finish(token uint64, result *types.CampaignResult, revision uint64, err error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = s.now()
	s.inFlight = false

	if token != s.token {
		return s.snapshotLocked(), ErrStale
	}

	if err != nil {
		s.result = nil
		s.errMessage = UserMessage(err)
		return s.snapshotLocked(), err
	}
	if result == nil {
		err = errors.New("generator returned neither result nor error")
		s.errMessage = unknownErrorMessage
		return s.snapshotLocked(), err
	}
	s.result = result
	s.resultRevision = revision
	s.errMessage = ""
	return s.snapshotLocked(), nil
}

// Reset clears the result slot and invalidates any running generation. The
// session stays busy until that call returns, so Submit keeps reporting
// ErrInFlight meanwhile.
func (s *Session) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
	s.result = nil
	s.errMessage = ""
	s.touchedAt = s.now()
	return s.snapshotLocked()
}

func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt, s.inFlight
}

// UserMessage returns the client-safe text for err.
func UserMessage(err error) string {
	var safe interface{ UserMessage() string }
	if errors.As(err, &safe) {
		return safe.UserMessage()
	}
	return unknownErrorMessage
}
