package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"campaign_ai_server/internal/types"
)

type stubGenerator struct {
	result *types.CampaignResult
	err    error
	calls  int
	seen   types.PlatformSelection
}

func (g *stubGenerator) GenerateCampaign(ctx context.Context, input types.CampaignInput, platforms types.PlatformSelection) (*types.CampaignResult, error) {
	g.calls++
	g.seen = platforms
	return g.result, g.err
}

// blockingGenerator parks inside GenerateCampaign until released.
type blockingGenerator struct {
	entered chan struct{}
	release chan struct{}
	result  *types.CampaignResult
}

func newBlockingGenerator(result *types.CampaignResult) *blockingGenerator {
	return &blockingGenerator{entered: make(chan struct{}), release: make(chan struct{}), result: result}
}

func (g *blockingGenerator) GenerateCampaign(ctx context.Context, input types.CampaignInput, platforms types.PlatformSelection) (*types.CampaignResult, error) {
	close(g.entered)
	<-g.release
	return g.result, nil
}

type userFacingError struct{}

func (userFacingError) Error() string       { return "transport error: dial tcp 10.0.0.1: refused" }
func (userFacingError) UserMessage() string { return "Please try again." }

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func sampleResult() *types.CampaignResult {
	return &types.CampaignResult{
		Author:         "Code Vibe Assistant",
		PoweredBy:      types.PoweredBy,
		Tweets:         []string{"one", "two", "three"},
		InstagramPosts: []types.InstagramPost{{Caption: "c", ImageIdea: "i"}},
	}
}

func newTestSession() *Session {
	return newSession("s-1", time.Now)
}

func TestNewSessionDefaults(t *testing.T) {
	snap := newTestSession().Snapshot()
	if snap.Input != types.DefaultInput() {
		t.Errorf("input = %+v", snap.Input)
	}
	if snap.Platforms != types.DefaultPlatforms() {
		t.Errorf("platforms = %+v", snap.Platforms)
	}
	if !snap.CanSubmit || snap.Generating || snap.Result != nil || snap.Error != "" {
		t.Errorf("unexpected initial state: %+v", snap)
	}
}

func TestUpdate(t *testing.T) {
	s := newTestSession()

	snap := s.Update(InputPatch{AuthorName: strPtr("Ada")}, types.PlatformPatch{Quora: boolPtr(true)})
	if snap.Input.AuthorName != "Ada" || snap.Input.BrandVoice != types.DefaultInput().BrandVoice {
		t.Errorf("input = %+v", snap.Input)
	}
	if !snap.Platforms.Quora || !snap.Platforms.Twitter {
		t.Errorf("platforms = %+v", snap.Platforms)
	}
	if snap.Revision != 1 {
		t.Errorf("revision = %d, want 1", snap.Revision)
	}

	snap = s.Update(InputPatch{AuthorName: strPtr("Ada")}, types.PlatformPatch{})
	if snap.Revision != 1 {
		t.Errorf("no-op update should not bump revision, got %d", snap.Revision)
	}

	snap = s.Update(InputPatch{BrandVoice: strPtr("   ")}, types.PlatformPatch{})
	if snap.CanSubmit || s.CanSubmit() {
		t.Error("blank brand voice must disable submit")
	}
}

func TestSubmitSuccess(t *testing.T) {
	s := newTestSession()
	gen := &stubGenerator{result: sampleResult()}

	snap, err := s.Submit(context.Background(), gen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d", gen.calls)
	}
	if gen.seen != types.DefaultPlatforms() {
		t.Errorf("generator saw platforms %+v", gen.seen)
	}
	if snap.Result == nil || snap.Error != "" || snap.Generating || snap.Stale {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Result.Tweets) != 3 {
		t.Errorf("tweets = %v", snap.Result.Tweets)
	}

	snap = s.Update(InputPatch{ProductDescription: strPtr("Something else")}, types.PlatformPatch{})
	if !snap.Stale || snap.Result == nil {
		t.Errorf("result should be kept and marked stale after editing: %+v", snap)
	}
}

func TestSubmitFailureReplacesResult(t *testing.T) {
	s := newTestSession()
	if _, err := s.Submit(context.Background(), &stubGenerator{result: sampleResult()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, err := s.Submit(context.Background(), &stubGenerator{err: userFacingError{}})
	if err == nil {
		t.Fatal("expected error")
	}
	if snap.Result != nil {
		t.Error("failed generation must clear the previous result")
	}
	if snap.Error != "Please try again." {
		t.Errorf("error = %q", snap.Error)
	}

	snap, _ = s.Submit(context.Background(), &stubGenerator{err: errors.New("boom")})
	if snap.Error != unknownErrorMessage {
		t.Errorf("error without user message = %q", snap.Error)
	}

	snap, err = s.Submit(context.Background(), &stubGenerator{})
	if err == nil || snap.Result != nil || snap.Error == "" {
		t.Errorf("nil result without error must surface as an error: %+v, %v", snap, err)
	}
}

func TestSubmitIncompleteInput(t *testing.T) {
	s := newTestSession()
	s.Update(InputPatch{AuthorName: strPtr("")}, types.PlatformPatch{})
	gen := &stubGenerator{result: sampleResult()}

	_, err := s.Submit(context.Background(), gen)
	if !errors.Is(err, ErrIncompleteInput) {
		t.Fatalf("expected ErrIncompleteInput, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator must not be called, got %d calls", gen.calls)
	}
}

func TestSubmitRejectsConcurrentRequest(t *testing.T) {
	s := newTestSession()
	gen := newBlockingGenerator(sampleResult())

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), gen)
		done <- err
	}()
	<-gen.entered

	snap := s.Snapshot()
	if !snap.Generating || snap.CanSubmit {
		t.Errorf("snapshot during flight: %+v", snap)
	}

	second := &stubGenerator{result: sampleResult()}
	if _, err := s.Submit(context.Background(), second); !errors.Is(err, ErrInFlight) {
		t.Errorf("expected ErrInFlight, got %v", err)
	}
	if second.calls != 0 {
		t.Error("second generator must not be called")
	}

	close(gen.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if snap := s.Snapshot(); snap.Result == nil || snap.Generating {
		t.Errorf("result not applied: %+v", snap)
	}
}

func TestResetDiscardsRunningGeneration(t *testing.T) {
	s := newTestSession()
	gen := newBlockingGenerator(sampleResult())

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), gen)
		done <- err
	}()
	<-gen.entered

	snap := s.Reset()
	if !snap.Generating || snap.CanSubmit {
		t.Errorf("session should stay busy until the running call returns: %+v", snap)
	}

	close(gen.release)
	if err := <-done; !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	snap = s.Snapshot()
	if snap.Result != nil || snap.Error != "" {
		t.Errorf("stale result must not be applied: %+v", snap)
	}
	if snap.Generating || !snap.CanSubmit {
		t.Errorf("session should be free once the call returned: %+v", snap)
	}
}

func TestSubmitAfterResetWaitsForRunningCall(t *testing.T) {
	s := newTestSession()
	first := newBlockingGenerator(sampleResult())

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), first)
		done <- err
	}()
	<-first.entered

	s.Reset()
	second := &stubGenerator{result: sampleResult()}
	if _, err := s.Submit(context.Background(), second); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight after reset, got %v", err)
	}
	if second.calls != 0 {
		t.Fatalf("second generator called %d times while the first was running", second.calls)
	}

	close(first.release)
	if err := <-done; !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}

	snap, err := s.Submit(context.Background(), second)
	if err != nil {
		t.Fatalf("submit after the call returned: %v", err)
	}
	if snap.Result == nil || second.calls != 1 {
		t.Errorf("expected one applied result, got %+v (calls=%d)", snap, second.calls)
	}
}

func TestSnapshotCopiesResult(t *testing.T) {
	s := newTestSession()
	if _, err := s.Submit(context.Background(), &stubGenerator{result: sampleResult()}); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	snap.Result.Author = "mutated"
	if s.Snapshot().Result.Author == "mutated" {
		t.Error("snapshot must not alias the stored result")
	}
}
