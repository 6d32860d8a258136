package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"videosummary_backend/internal/events"
	"videosummary_backend/internal/summarize/credential"
	"videosummary_backend/internal/summarize/domain"
	"videosummary_backend/internal/summarize/staging"
	"videosummary_backend/platform/apperr"
	"videosummary_backend/platform/logger"
)

// trackingStager wraps a real stager so tests can count Stage and Release
// calls while exercising the real temp-file behavior.
type trackingStager struct {
	real         *staging.Stager
	stageCalls   int
	releaseCalls int
}

func (s *trackingStager) Stage(media staging.UploadedMedia) (*staging.Handle, error) {
	s.stageCalls++
	return s.real.Stage(media)
}

func (s *trackingStager) Release(handle *staging.Handle) error {
	s.releaseCalls++
	return s.real.Release(handle)
}

type fakeSummarizer struct {
	text  string
	err   error
	calls int

	// captured from the last call
	prompt string
	handle *staging.Handle
	cred   credential.Credential
}

func (f *fakeSummarizer) Summarize(ctx context.Context, handle *staging.Handle, promptText string, cred credential.Credential) (string, error) {
	f.calls++
	f.prompt = promptText
	f.handle = handle
	f.cred = cred
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// recordingBus captures published events synchronously.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func (b *recordingBus) published() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event(nil), b.events...)
}

type fixture struct {
	svc        *Service
	stager     *trackingStager
	summarizer *fakeSummarizer
	bus        *recordingBus
}

func newFixture(t *testing.T, envKey string, summarizer *fakeSummarizer) *fixture {
	t.Helper()
	stager := &trackingStager{real: staging.New(t.TempDir(), 0)}
	bus := &recordingBus{}
	svc := New(
		credential.NewResolver(envKey),
		stager,
		summarizer,
		bus,
		logger.New("development"),
	)
	return &fixture{svc: svc, stager: stager, summarizer: summarizer, bus: bus}
}

func validRequest() SummaryRequest {
	return SummaryRequest{
		Media: staging.UploadedMedia{
			Data:        []byte("fake mp4 bytes"),
			ContentType: "video/mp4",
			Filename:    "clip.mp4",
		},
		Style: domain.StyleBulletPoints,
		Query: "What are the main points?",
	}
}

func TestSummarizeSuccess(t *testing.T) {
	f := newFixture(t, "env-key", &fakeSummarizer{text: "• A\n• B"})

	result, err := f.svc.Summarize(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if result.Text != "• A\n• B" {
		t.Errorf("result text = %q", result.Text)
	}
	if result.Style != domain.StyleBulletPoints {
		t.Errorf("result style = %q", result.Style)
	}

	if f.summarizer.calls != 1 {
		t.Errorf("summarizer calls = %d, want 1", f.summarizer.calls)
	}
	if f.summarizer.cred.Key() != "env-key" {
		t.Errorf("summarizer credential = %q, want env key", f.summarizer.cred.Key())
	}
	if f.stager.releaseCalls != 1 {
		t.Errorf("release calls = %d, want exactly 1", f.stager.releaseCalls)
	}

	published := f.bus.published()
	if len(published) != 1 {
		t.Fatalf("published events = %d, want 1", len(published))
	}
	completed, ok := published[0].(events.SummaryRequestCompleted)
	if !ok {
		t.Fatalf("published event type = %T, want SummaryRequestCompleted", published[0])
	}
	if completed.Style != string(domain.StyleBulletPoints) {
		t.Errorf("event style = %q", completed.Style)
	}
	if completed.OutputChars == 0 {
		t.Error("event output chars = 0")
	}
}

func TestSummarizePassesBuiltPromptToBackend(t *testing.T) {
	f := newFixture(t, "env-key", &fakeSummarizer{text: "summary"})

	req := validRequest()
	if _, err := f.svc.Summarize(context.Background(), req); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	want := domain.BuildPrompt(req.Style, req.Query)
	if f.summarizer.prompt != want {
		t.Errorf("prompt = %q, want %q", f.summarizer.prompt, want)
	}
}

func TestSummarizeUserKeyOverridesEnvKey(t *testing.T) {
	f := newFixture(t, "env-key", &fakeSummarizer{text: "summary"})

	req := validRequest()
	req.UserKey = "user-key"
	if _, err := f.svc.Summarize(context.Background(), req); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if f.summarizer.cred.Key() != "user-key" {
		t.Errorf("summarizer credential = %q, want user key", f.summarizer.cred.Key())
	}
}

func TestSummarizeMissingCredential(t *testing.T) {
	f := newFixture(t, "", &fakeSummarizer{text: "summary"})

	_, err := f.svc.Summarize(context.Background(), validRequest())
	if !apperr.Is(err, apperr.KindMissingCredential) {
		t.Fatalf("error kind = %v, want KindMissingCredential", apperr.GetKind(err))
	}

	if f.stager.stageCalls != 0 {
		t.Errorf("stage calls = %d, want 0 when credential resolution fails", f.stager.stageCalls)
	}
	if f.summarizer.calls != 0 {
		t.Errorf("summarizer calls = %d, want 0", f.summarizer.calls)
	}

	assertFailedEvent(t, f.bus, apperr.KindMissingCredential)
}

func TestSummarizeUnsupportedFormat(t *testing.T) {
	f := newFixture(t, "env-key", &fakeSummarizer{text: "summary"})

	req := validRequest()
	req.Media.ContentType = "text/plain"
	req.Media.Filename = "notes.txt"

	_, err := f.svc.Summarize(context.Background(), req)
	if !apperr.Is(err, apperr.KindUnsupportedFormat) {
		t.Fatalf("error kind = %v, want KindUnsupportedFormat", apperr.GetKind(err))
	}

	if f.summarizer.calls != 0 {
		t.Errorf("summarizer calls = %d, want 0 for rejected upload", f.summarizer.calls)
	}
	// Stage failed, so there is nothing to release; the deferred release never
	// runs because Stage returned before the defer was installed.
	if f.stager.releaseCalls != 0 {
		t.Errorf("release calls = %d, want 0", f.stager.releaseCalls)
	}

	assertFailedEvent(t, f.bus, apperr.KindUnsupportedFormat)
}

func TestSummarizeBackendAuthenticationFailure(t *testing.T) {
	f := newFixture(t, "env-key", &fakeSummarizer{
		err: apperr.Authentication("API key rejected by backend"),
	})

	_, err := f.svc.Summarize(context.Background(), validRequest())
	if !apperr.Is(err, apperr.KindAuthentication) {
		t.Fatalf("error kind = %v, want KindAuthentication", apperr.GetKind(err))
	}

	if f.stager.releaseCalls != 1 {
		t.Errorf("release calls = %d, want exactly 1 after backend failure", f.stager.releaseCalls)
	}
	assertFailedEvent(t, f.bus, apperr.KindAuthentication)
}

func TestSummarizeTransientBackendFailure(t *testing.T) {
	f := newFixture(t, "env-key", &fakeSummarizer{
		err: apperr.TransientBackend("backend request timed out"),
	})

	_, err := f.svc.Summarize(context.Background(), validRequest())
	if !apperr.Is(err, apperr.KindTransientBackend) {
		t.Fatalf("error kind = %v, want KindTransientBackend", apperr.GetKind(err))
	}
	if f.summarizer.calls != 1 {
		t.Errorf("summarizer calls = %d, want 1 (no retry)", f.summarizer.calls)
	}
	if f.stager.releaseCalls != 1 {
		t.Errorf("release calls = %d, want exactly 1", f.stager.releaseCalls)
	}
}

func TestSummarizeInvalidStyle(t *testing.T) {
	f := newFixture(t, "env-key", &fakeSummarizer{text: "summary"})

	req := validRequest()
	req.Style = domain.SummaryStyle("haiku")

	_, err := f.svc.Summarize(context.Background(), req)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("error kind = %v, want KindValidation", apperr.GetKind(err))
	}
	if f.stager.stageCalls != 0 {
		t.Errorf("stage calls = %d, want 0", f.stager.stageCalls)
	}
}

func TestSummarizeErrorPassedThroughUnchanged(t *testing.T) {
	backendErr := apperr.UnknownBackend("backend returned an empty summary")
	f := newFixture(t, "env-key", &fakeSummarizer{err: backendErr})

	_, err := f.svc.Summarize(context.Background(), validRequest())
	if !errors.Is(err, backendErr) {
		t.Errorf("error = %v, want the summarizer error unchanged", err)
	}
}

func assertFailedEvent(t *testing.T, bus *recordingBus, kind apperr.Kind) {
	t.Helper()
	published := bus.published()
	if len(published) != 1 {
		t.Fatalf("published events = %d, want 1", len(published))
	}
	failed, ok := published[0].(events.SummaryRequestFailed)
	if !ok {
		t.Fatalf("published event type = %T, want SummaryRequestFailed", published[0])
	}
	if failed.Kind != kind.String() {
		t.Errorf("event kind = %q, want %q", failed.Kind, kind.String())
	}
	if failed.Reason == "" {
		t.Error("event reason is empty")
	}
}
