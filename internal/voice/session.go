// Package voice drives the voice-to-transaction pipeline: record, encode,
// extract, resolve, apply. One session handles one utterance; only a single
// extraction may be in flight at a time.
package voice

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/thucvanminh/mywallet/internal/common"
	"github.com/thucvanminh/mywallet/internal/extract"
	"github.com/thucvanminh/mywallet/internal/model"
	"github.com/thucvanminh/mywallet/internal/service"
)

// State is the session's position in the recording lifecycle.
type State int

// Session states. Applying and Failed both return to Idle when the session
// finishes; there is no queued state.
const (
	StateIdle State = iota
	StateRecording
	StateEncoding
	StateAwaitingExtraction
	StateApplying
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEncoding:
		return "encoding"
	case StateAwaitingExtraction:
		return "awaiting-extraction"
	case StateApplying:
		return "applying"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TransactionStore is the slice of storage the session needs: independent
// per-candidate creates, no batch atomicity.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
}

// CandidateFailure records one candidate that could not be applied. Other
// candidates in the batch are unaffected; there is no rollback.
type CandidateFailure struct {
	Candidate service.Candidate
	Err       error
	Index     int
}

// Result reports what one extraction session did. Applied transactions are in
// the order the extraction service returned them.
type Result struct {
	Applied   []model.Transaction
	Failed    []CandidateFailure
	Fallbacks []string // extracted category names that fell back to the default
}

// Session runs the voice pipeline for one user. A Session is safe for
// concurrent use; concurrent Process calls beyond the first fail with
// common.ErrSessionBusy rather than queueing.
type Session struct {
	recorder  Recorder
	extractor service.Extractor
	store     TransactionStore
	logger    *slog.Logger
	now       func() time.Time
	timeout   time.Duration
	progress  func(done, total int)

	mu    sync.Mutex
	state State
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout bounds the extraction round trip.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithClock overrides the session clock.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithProgress registers a callback invoked after each candidate has been
// handled (applied or failed) during the apply phase.
func WithProgress(fn func(done, total int)) Option {
	return func(s *Session) { s.progress = fn }
}

// NewSession creates a voice session over the given capture, extraction, and
// storage collaborators.
func NewSession(recorder Recorder, extractor service.Extractor, store TransactionStore, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{
		recorder:  recorder,
		extractor: extractor,
		store:     store,
		logger:    logger,
		now:       time.Now,
		timeout:   extract.DefaultTimeout,
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// State returns the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// begin moves Idle to Recording, enforcing the single-in-flight rule.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return fmt.Errorf("%w: session is %s", common.ErrSessionBusy, s.state)
	}
	s.state = StateRecording
	return nil
}

func (s *Session) transition(to State) {
	s.mu.Lock()
	s.state = to
	s.mu.Unlock()
}

// fail marks the terminal Failed state and immediately returns the session to
// Idle so the user can re-invoke manually. Nothing is retried.
func (s *Session) fail(err error) error {
	s.transition(StateFailed)
	s.transition(StateIdle)
	return err
}

// Process runs one full recording session for the owner: start and stop the
// recorder, encode the clip, perform the single extraction round trip, then
// apply each candidate independently in the order received.
//
// Permission denial, transport failure, timeout, and empty extraction are
// distinct errors; per-candidate apply failures do not fail the session and
// are reported on the Result instead.
func (s *Session) Process(ctx context.Context, ownerID string, categories []model.Category) (*Result, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories available for extraction")
	}

	if err := s.begin(); err != nil {
		return nil, err
	}

	if err := s.recorder.Start(ctx); err != nil {
		return nil, s.fail(err)
	}

	s.transition(StateEncoding)
	clip, err := s.recorder.Stop(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	encoded := base64.StdEncoding.EncodeToString(clip)

	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = cat.Name
	}

	s.transition(StateAwaitingExtraction)
	extractCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := s.now()
	candidates, err := s.extractor.Extract(extractCtx, service.ExtractionRequest{
		AudioBase64: encoded,
		Categories:  names,
		CurrentDate: s.now(),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(extractCtx.Err(), context.DeadlineExceeded) {
			return nil, s.fail(fmt.Errorf("%w after %s", common.ErrExtractionTimeout, s.timeout))
		}
		if !errors.Is(err, common.ErrTransportFailure) {
			err = fmt.Errorf("%w: %v", common.ErrTransportFailure, err)
		}
		return nil, s.fail(err)
	}

	s.logger.Debug("extraction round trip finished",
		"candidates", len(candidates),
		"duration", s.now().Sub(started))

	// A successful round trip that understood nothing is reported softly,
	// distinct from a hard failure.
	if len(candidates) == 0 {
		return nil, s.fail(common.ErrEmptyExtraction)
	}

	s.transition(StateApplying)
	result := s.apply(ctx, ownerID, categories, candidates)
	s.transition(StateIdle)

	return result, nil
}

// apply resolves and submits each candidate independently, in order. A failed
// candidate does not roll back previously applied ones. The progress callback
// fires once per candidate regardless of outcome.
func (s *Session) apply(ctx context.Context, ownerID string, categories []model.Category, candidates []service.Candidate) *Result {
	result := &Result{}
	total := len(candidates)

	for i, candidate := range candidates {
		created, err := s.applyCandidate(ctx, ownerID, categories, candidate, result)
		if err != nil {
			result.Failed = append(result.Failed, CandidateFailure{Index: i, Candidate: candidate, Err: err})
		} else {
			result.Applied = append(result.Applied, *created)
		}
		if s.progress != nil {
			s.progress(i+1, total)
		}
	}

	s.logger.Info("voice batch applied",
		"applied", len(result.Applied),
		"failed", len(result.Failed),
		"fallbacks", len(result.Fallbacks))
	return result
}

// applyCandidate validates, resolves, and stores a single candidate,
// recording any category fallback on the result.
func (s *Session) applyCandidate(ctx context.Context, ownerID string, categories []model.Category, candidate service.Candidate, result *Result) (*model.Transaction, error) {
	if err := validateAmount(candidate.Amount); err != nil {
		return nil, err
	}

	resolution, err := Resolve(categories, candidate.CategoryName)
	if err != nil {
		return nil, err
	}
	if resolution.Fallback {
		s.logger.Warn("category fallback",
			"extracted", candidate.CategoryName,
			"resolved", resolution.Category.Name)
		result.Fallbacks = append(result.Fallbacks, candidate.CategoryName)
	}

	date := candidate.Date
	if date.IsZero() {
		date = s.now()
	}

	return s.store.CreateTransaction(ctx, &model.Transaction{
		OwnerID:    ownerID,
		CategoryID: resolution.Category.ID,
		Amount:     candidate.Amount,
		Note:       candidate.Note,
		Date:       date,
	})
}

// validateAmount rejects amounts the remote service should never emit but
// occasionally does.
func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("amount is not a number")
	}
	if amount < 0 {
		return fmt.Errorf("amount %v is negative", amount)
	}
	return nil
}
