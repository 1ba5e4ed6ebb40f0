package identifier

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
)

const (
	// DefaultAttempts is the retry budget for finding a free code.
	DefaultAttempts = 5
	segmentLength   = 7
	filler          = "X"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ExistsFunc reports whether a code is already stored.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// ClaimFunc tries to persist a code. It must return an error wrapping
// apperrors.ErrCodeTaken when the storage uniqueness constraint rejects it.
type ClaimFunc func(ctx context.Context, code string) error

// Issuer hands out codes and persists them through claim.
type Issuer interface {
	Issue(ctx context.Context, prefix string, claim ClaimFunc) (string, error)
}

// Generator produces PREFIX-XXXXXXX codes from the clock and a random value.
type Generator struct {
	attempts int
	now      func() time.Time
	random   func() (string, error)
}

// Option configures a Generator.
type Option func(*Generator)

func WithAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.attempts = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithRandomSource replaces the crypto random segment source.
func WithRandomSource(random func() (string, error)) Option {
	return func(g *Generator) {
		g.random = random
	}
}

func NewGenerator(options ...Option) *Generator {
	g := &Generator{
		attempts: DefaultAttempts,
		now:      time.Now,
		random:   cryptoRandomBase36,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

var _ Issuer = (*Generator)(nil)

// Candidate builds one code without touching storage.
func (g *Generator) Candidate(prefix string) (string, error) {
	random, err := g.random()
	if err != nil {
		return "", fmt.Errorf("failed to read random segment: %w", err)
	}
	raw := strconv.FormatInt(g.now().UnixMilli(), 36) + random
	segment := strings.ToUpper(nonAlphanumeric.ReplaceAllString(raw, ""))
	if len(segment) > segmentLength {
		segment = segment[len(segment)-segmentLength:]
	} else {
		segment += strings.Repeat(filler, segmentLength-len(segment))
	}
	return prefix + "-" + segment, nil
}

// Generate looks for a candidate that exists reports as free. This is a
// check-then-act read; writers should prefer Issue so the storage constraint
// decides.
func (g *Generator) Generate(ctx context.Context, prefix string, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.attempts; attempt++ {
		code, err := g.Candidate(prefix)
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", apperrors.NewGenerationExhaustedError(prefix, g.attempts)
}

// Issue claims candidates until one is accepted by storage or the budget runs out.
func (g *Generator) Issue(ctx context.Context, prefix string, claim ClaimFunc) (string, error) {
	for attempt := 0; attempt < g.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := g.Candidate(prefix)
		if err != nil {
			return "", err
		}
		err = claim(ctx, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, apperrors.ErrCodeTaken) {
			return "", err
		}
	}
	return "", apperrors.NewGenerationExhaustedError(prefix, g.attempts)
}

func cryptoRandomBase36() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36), nil
}
