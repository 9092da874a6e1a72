// internal/round/service.go
//
// Round lifecycle orchestration.
// Responsibilities:
//   - Create: validate theme, draw the hidden target, generate anchors + clue,
//     mint the round id, store the record, return the public view (no target).
//   - Reveal: validate the guess, consume the record exactly once, grade.
//   - Opportunistic expiry sweep at the start of both operations.
//
// The service owns the only reference to the Store; generator calls happen
// before the record exists, so a failed generation never leaves state behind.

package round

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Store holds pending rounds between creation and reveal.
// Implementations may be backed by memory, Redis, SQL, etc.
type Store interface {
	// Put inserts a freshly minted record. Ids are random and never reused,
	// so key collisions are a programming error, not a runtime condition.
	Put(ctx context.Context, r Round) error

	// TakeIfPresent atomically removes and returns the record for id if it
	// exists and is younger than the store's TTL at now. Absence is an
	// expected outcome, not an error: consumed, expired, and never-created
	// ids all report ok=false.
	TakeIfPresent(ctx context.Context, id string, now time.Time) (Round, bool, error)

	// SweepExpired drops every record older than the store's TTL at now.
	SweepExpired(ctx context.Context, now time.Time) error
}

// Generator produces round content. Implementations return
// *GenerationError for backend failures and *InvalidContentError for
// undecodable output; bound checks are the service's job.
type Generator interface {
	Anchors(ctx context.Context, theme string) (Anchors, error)
	Clue(ctx context.Context, theme string, a Anchors, target int) (string, error)
}

// Recorder receives best-effort round history events. May be nil.
type Recorder interface {
	RoundCreated(ctx context.Context, id, theme string, at time.Time) error
	RoundRevealed(ctx context.Context, id string, res Result, guess int, at time.Time) error
}

// Service orchestrates round creation and reveal.
type Service struct {
	store Store
	gen   Generator
	hist  Recorder

	// injected for tests
	now  func() time.Time
	pick func() int
}

// NewService wires a Service. hist may be nil to disable history.
func NewService(st Store, g Generator, hist Recorder) *Service {
	return &Service{
		store: st,
		gen:   g,
		hist:  hist,
		now:   time.Now,
		pick:  func() int { return rand.Intn(TargetMax + 1) },
	}
}

// Created is the public view of a new round. It never carries the target.
type Created struct {
	ID      string
	Theme   string
	Anchors Anchors
	Clue    string
}

// Create runs one round setup: theme validation, target draw, content
// generation, record insertion. The target is drawn before any generator
// call so the clue can be conditioned on it.
func (s *Service) Create(ctx context.Context, theme string) (Created, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return Created{}, ErrThemeRequired
	}

	if err := s.store.SweepExpired(ctx, s.now()); err != nil {
		log.Warn().Err(err).Msg("sweep expired rounds")
	}

	target := s.pick()

	anchors, err := s.gen.Anchors(ctx, theme)
	if err != nil {
		return Created{}, err
	}
	if problems := anchors.Normalize(); len(problems) > 0 {
		return Created{}, &InvalidContentError{Details: problems}
	}

	clue, err := s.gen.Clue(ctx, theme, anchors, target)
	if err != nil {
		return Created{}, err
	}
	clue, problems := NormalizeClue(clue)
	if len(problems) > 0 {
		return Created{}, &InvalidContentError{Details: problems}
	}

	// Both generation calls succeeded; only now does a record exist.
	rec := New(target, s.now())
	if err := s.store.Put(ctx, rec); err != nil {
		return Created{}, err
	}

	if s.hist != nil {
		if err := s.hist.RoundCreated(ctx, rec.ID, theme, rec.CreatedAt); err != nil {
			log.Warn().Err(err).Str("roundId", rec.ID).Msg("record round creation")
		}
	}

	return Created{ID: rec.ID, Theme: theme, Anchors: anchors, Clue: clue}, nil
}

// Reveal consumes the round and grades the guess. Guess validation happens
// before the take, so a rejected guess leaves the record consumable. The
// take is the single atomic consumption point: a second call with the same
// id, or a call after expiry, reports ErrRoundNotFound.
func (s *Service) Reveal(ctx context.Context, id string, guess int) (Result, error) {
	if guess < 0 || guess > TargetMax {
		return Result{}, ErrGuessOutOfRange
	}

	if err := s.store.SweepExpired(ctx, s.now()); err != nil {
		log.Warn().Err(err).Msg("sweep expired rounds")
	}

	rec, ok, err := s.store.TakeIfPresent(ctx, id, s.now())
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, ErrRoundNotFound
	}

	res := Grade(rec.Target, guess)

	if s.hist != nil {
		if err := s.hist.RoundRevealed(ctx, id, res, guess, s.now()); err != nil {
			log.Warn().Err(err).Str("roundId", id).Msg("record round reveal")
		}
	}

	return res, nil
}
