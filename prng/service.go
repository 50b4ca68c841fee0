// Package prng combines a client and an oracle entropy contribution into a
// pseudorandom output and lets anyone check a published output against its
// seeds.
package prng

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"PRNG/auditlog"
	"PRNG/drbg"
	"PRNG/entropy"
	"PRNG/events"
	"PRNG/util"
)

// Service runs generation calls one at a time against an audit log.
type Service struct {
	mu        sync.Mutex
	validator *entropy.Validator
	log       auditlog.Log
	feed      *events.Feed
	logger    *zap.Logger
	maxLength uint64
}

// Option configures a Service.
type Option func(*Service)

// WithValidator replaces the default secp256k1 validator.
func WithValidator(v *entropy.Validator) Option {
	return func(s *Service) { s.validator = v }
}

// WithFeed publishes every appended record on f.
func WithFeed(f *events.Feed) Option {
	return func(s *Service) { s.feed = f }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMaxLength lowers the largest length Generate accepts. Values above
// drbg.MaxLength are ignored.
func WithMaxLength(n uint64) Option {
	return func(s *Service) { s.maxLength = min(n, drbg.MaxLength) }
}

// NewService returns a Service appending to log.
func NewService(log auditlog.Log, opts ...Option) *Service {
	s := &Service{
		validator: entropy.NewValidator(),
		log:       log,
		feed:      events.NewFeed(),
		logger:    zap.NewNop(),
		maxLength: drbg.MaxLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Feed returns the feed Random events are published on.
func (s *Service) Feed() *events.Feed { return s.feed }

// Log returns the underlying audit log.
func (s *Service) Log() auditlog.Log { return s.log }

// Generate validates both triples, expands their seeds to length bytes and
// appends the result to the audit log. On error nothing is appended.
func (s *Service) Generate(ctx context.Context, client, oracle entropy.Triple, length uint64) (auditlog.Record, error) {
	if err := drbg.CheckLength(length); err != nil {
		s.logger.Debug("generate rejected", zap.Uint64("length", length), zap.Error(err))
		return auditlog.Record{}, err
	}
	if length > s.maxLength {
		err := fmt.Errorf("%w: %d > %d", drbg.ErrLengthTooLarge, length, s.maxLength)
		s.logger.Debug("generate rejected", zap.Error(err))
		return auditlog.Record{}, err
	}
	s1, err := s.validator.Validate(client, entropy.Client)
	if err != nil {
		s.reject(entropy.Client, client, err)
		return auditlog.Record{}, err
	}
	s2, err := s.validator.Validate(oracle, entropy.Oracle)
	if err != nil {
		s.reject(entropy.Oracle, oracle, err)
		return auditlog.Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return auditlog.Record{}, err
	}

	rec := auditlog.Record{
		Result: drbg.Expand(s1, s2, length),
		S1:     s1,
		S2:     s2,
		Length: length,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored, err := s.log.Append(rec)
	if err != nil {
		s.logger.Error("append record", zap.Error(err))
		return auditlog.Record{}, fmt.Errorf("append record: %w", err)
	}
	delivered := s.feed.Publish(stored)

	s.logger.Info("random generated",
		zap.Uint64("index", stored.Index),
		zap.Uint64("length", length),
		zap.Stringer("s1", s1),
		zap.Stringer("s2", s2),
		zap.String("result", util.ShortHex(stored.Result)),
		zap.Int("subscribers", delivered),
	)
	return stored, nil
}

func (s *Service) reject(side entropy.Side, t entropy.Triple, err error) {
	s.logger.Warn("entropy rejected",
		zap.Stringer("side", side),
		zap.Stringer("identity", t.Identity),
		zap.Error(err),
		zap.NamedError("cause", unwrapCause(err)),
	)
}

func unwrapCause(err error) error {
	var e *entropy.EntropyError
	if errors.As(err, &e) && e.Cause != nil {
		return e.Cause
	}
	return err
}

// Verify calls the package level Verify.
func (s *Service) Verify(result []byte, s1, s2 entropy.Seed, length uint64) bool {
	return Verify(result, s1, s2, length)
}

// VerifyRecord re-checks the record stored at index.
func (s *Service) VerifyRecord(index uint64) (bool, error) {
	rec, err := s.log.Get(index)
	if err != nil {
		return false, err
	}
	return Verify(rec.Result, rec.S1, rec.S2, rec.Length), nil
}
