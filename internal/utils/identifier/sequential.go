package identifier

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
)

// ListCodesFunc returns every stored code.
type ListCodesFunc func(ctx context.Context) ([]string, error)

// Sequential is the legacy counter strategy producing EMP001, EMP002, ...
// Two readers can compute the same next number; the claim's uniqueness
// constraint turns that into a retry.
type Sequential struct {
	attempts int
	width    int
	list     ListCodesFunc
}

func NewSequential(list ListCodesFunc, attempts int) *Sequential {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	return &Sequential{attempts: attempts, width: 3, list: list}
}

var _ Issuer = (*Sequential)(nil)

// NextSequential scans codes of the form PREFIXnnn and returns the one after the highest.
func NextSequential(prefix string, codes []string, width int) string {
	highest := 0
	for _, code := range codes {
		suffix, ok := strings.CutPrefix(code, prefix)
		if !ok || suffix == "" {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 0 {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, highest+1)
}

func (s *Sequential) Issue(ctx context.Context, prefix string, claim ClaimFunc) (string, error) {
	for attempt := 0; attempt < s.attempts; attempt++ {
		codes, err := s.list(ctx)
		if err != nil {
			return "", err
		}
		code := NextSequential(prefix, codes, s.width)
		err = claim(ctx, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, apperrors.ErrCodeTaken) {
			return "", err
		}
	}
	return "", apperrors.NewGenerationExhaustedError(prefix, s.attempts)
}
