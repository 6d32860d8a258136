// Package service orchestrates the summarization request pipeline:
// resolve credential, stage media, build prompt, invoke the backend agent,
// release staged media, return result or typed error.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"videosummary_backend/internal/events"
	"videosummary_backend/internal/summarize/credential"
	"videosummary_backend/internal/summarize/domain"
	"videosummary_backend/internal/summarize/staging"
	"videosummary_backend/platform/apperr"
	"videosummary_backend/platform/logger"
)

// SummaryRequest carries everything needed for one pipeline run.
type SummaryRequest struct {
	Media   staging.UploadedMedia
	Style   domain.SummaryStyle
	Query   string // empty means "use style default"
	UserKey string // optional request-provided API key
}

// SummaryResult is a non-empty text payload. Failures are returned as typed
// errors, never as partial results.
type SummaryResult struct {
	Text  string
	Style domain.SummaryStyle
}

// CredentialResolver resolves the backend API key for one request.
type CredentialResolver interface {
	Resolve(userProvidedKey string) (credential.Credential, error)
}

// MediaStager stages uploaded media and releases it after use.
type MediaStager interface {
	Stage(media staging.UploadedMedia) (*staging.Handle, error)
	Release(handle *staging.Handle) error
}

// Summarizer performs the single backend agent call.
type Summarizer interface {
	Summarize(ctx context.Context, handle *staging.Handle, promptText string, cred credential.Credential) (string, error)
}

// Service runs the pipeline. It holds no per-request state; each Summarize
// call creates its own run, so one Service instance serves concurrent
// requests without locking.
type Service struct {
	resolver   CredentialResolver
	stager     MediaStager
	summarizer Summarizer
	bus        events.Bus
	log        *logger.Logger
}

func New(resolver CredentialResolver, stager MediaStager, summarizer Summarizer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		resolver:   resolver,
		stager:     stager,
		summarizer: summarizer,
		bus:        bus,
		log:        log,
	}
}

// run tracks the state machine for one request:
// Idle → Credential_Resolved → Media_Staged → Summarized → Done,
// with Failed reachable from any non-terminal state.
type run struct {
	id      string
	state   domain.RequestState
	started time.Time
}

func newRun() *run {
	return &run{
		id:      uuid.New().String(),
		state:   domain.StateIdle,
		started: time.Now(),
	}
}

func (r *run) advance(to domain.RequestState) error {
	if !domain.CanTransition(r.state, to) {
		return apperr.Internal("invalid request state transition " + string(r.state) + " -> " + string(to))
	}
	r.state = to
	return nil
}

// Summarize executes one full pipeline run. Staged media is released exactly
// once on every path, success or failure, before the result is returned.
func (s *Service) Summarize(ctx context.Context, req SummaryRequest) (*SummaryResult, error) {
	r := newRun()
	log := s.log.WithContext(ctx).WithRequestID(r.id)

	if !req.Style.IsValid() {
		return nil, s.fail(ctx, r, req, apperr.Validation("unknown summary style "+string(req.Style)))
	}

	cred, err := s.resolver.Resolve(req.UserKey)
	if err != nil {
		return nil, s.fail(ctx, r, req, err)
	}
	if err := r.advance(domain.StateCredentialResolved); err != nil {
		return nil, s.fail(ctx, r, req, err)
	}
	log.Debug("credential resolved", "key_prefix", cred.DebugPrefix())

	handle, err := s.stager.Stage(req.Media)
	if err != nil {
		return nil, s.fail(ctx, r, req, err)
	}
	defer func() {
		if releaseErr := s.stager.Release(handle); releaseErr != nil {
			log.Warn("failed to release staged media", "error", releaseErr)
		}
	}()
	if err := r.advance(domain.StateMediaStaged); err != nil {
		return nil, s.fail(ctx, r, req, err)
	}

	promptText := domain.BuildPrompt(req.Style, req.Query)

	text, err := s.summarizer.Summarize(ctx, handle, promptText, cred)
	if err != nil {
		return nil, s.fail(ctx, r, req, err)
	}
	if err := r.advance(domain.StateSummarized); err != nil {
		return nil, s.fail(ctx, r, req, err)
	}

	if err := r.advance(domain.StateDone); err != nil {
		return nil, s.fail(ctx, r, req, err)
	}

	duration := time.Since(r.started)
	log.SummaryEvent(r.id, string(req.Style), true, "")
	if s.bus != nil {
		s.bus.Publish(ctx, events.SummaryRequestCompleted{
			BaseEvent:   events.NewBaseEvent(),
			RequestID:   r.id,
			Style:       string(req.Style),
			OutputChars: len(text),
			DurationMs:  duration.Milliseconds(),
		})
	}

	return &SummaryResult{Text: text, Style: req.Style}, nil
}

// fail transitions the run to Failed and surfaces the error unchanged.
// Media release is handled by the deferred release in Summarize; nothing here
// may swallow the error.
func (s *Service) fail(ctx context.Context, r *run, req SummaryRequest, err error) error {
	r.state = domain.StateFailed

	kind := apperr.GetKind(err)
	s.log.WithContext(ctx).SummaryEvent(r.id, string(req.Style), false, err.Error())
	if s.bus != nil {
		s.bus.Publish(ctx, events.SummaryRequestFailed{
			BaseEvent:  events.NewBaseEvent(),
			RequestID:  r.id,
			Style:      string(req.Style),
			Kind:       kind.String(),
			Reason:     err.Error(),
			DurationMs: time.Since(r.started).Milliseconds(),
		})
	}
	return err
}
