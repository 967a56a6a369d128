package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/texora/texora-core/internal/repository"
	"gorm.io/gorm"
)

// counterNameRe constrains counter names to 2-30 chars of [A-Za-z0-9_]
var counterNameRe = regexp.MustCompile(`^[A-Za-z0-9_]{2,30}$`)

// SequenceService hands out monotonically increasing identifiers per named
// counter. It is stateless; the atomic increment in the counter repository
// is the only synchronization point, so any number of concurrent callers
// get distinct, gap-free values. An allocated value that is never used is
// permanently consumed: gaps from failed saves are acceptable, duplicates
// are not.
type SequenceService struct {
	repo repository.CounterRepository
}

// NewSequenceService creates a new sequence service
func NewSequenceService(repo repository.CounterRepository) *SequenceService {
	return &SequenceService{repo: repo}
}

// NextSequence allocates the next value of the named counter, creating the
// counter on first use. A create race surfaces as a duplicate-key error and
// is retried exactly once; the second attempt targets the now-existing row.
func (s *SequenceService) NextSequence(ctx context.Context, name string) (int64, error) {
	if !counterNameRe.MatchString(name) {
		return 0, fmt.Errorf("%w: counter name %q must be 2-30 characters of [A-Za-z0-9_]", ErrInvalidArgument, name)
	}

	seq, err := s.repo.IncrementAndGet(ctx, name)
	if err == nil {
		return seq, nil
	}
	if errors.Is(err, repository.ErrCounterInactive) {
		return 0, fmt.Errorf("%w: counter %q is deactivated", ErrInvalidArgument, name)
	}

	// One bounded retry. Retrying more would only mask a genuinely broken
	// storage layer.
	seq, retryErr := s.repo.IncrementAndGet(ctx, name)
	if retryErr == nil {
		return seq, nil
	}
	if errors.Is(retryErr, gorm.ErrDuplicatedKey) {
		return 0, fmt.Errorf("%w: counter %q create race persisted after retry", ErrConflict, name)
	}
	if errors.Is(retryErr, repository.ErrCounterInactive) {
		return 0, fmt.Errorf("%w: counter %q is deactivated", ErrInvalidArgument, name)
	}
	return 0, fmt.Errorf("%w: allocating sequence for counter %q: %v", ErrUnavailable, name, retryErr)
}

// NextFormattedSequence allocates the next value and renders it through the
// given template. Runs of '#' are replaced by the zero-padded sequence; the
// counter's stored prefix and suffix wrap the result. An empty format falls
// back to the counter's stored format, then to plain digits.
//
// A sequence that outgrows the template width renders at full width rather
// than truncating.
func (s *SequenceService) NextFormattedSequence(ctx context.Context, name, format string) (string, error) {
	seq, err := s.NextSequence(ctx, name)
	if err != nil {
		return "", err
	}

	counter, err := s.repo.Find(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%w: loading counter %q: %v", ErrUnavailable, name, err)
	}

	if format == "" {
		format = counter.Format
	}
	return counter.Prefix + applyFormat(format, seq) + counter.Suffix, nil
}

// Reset zeroes the named counter. The next allocation returns 1.
func (s *SequenceService) Reset(ctx context.Context, name string) error {
	if !counterNameRe.MatchString(name) {
		return fmt.Errorf("%w: counter name %q must be 2-30 characters of [A-Za-z0-9_]", ErrInvalidArgument, name)
	}
	if err := s.repo.Reset(ctx, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: counter %q", ErrNotFound, name)
		}
		return fmt.Errorf("%w: resetting counter %q: %v", ErrUnavailable, name, err)
	}
	return nil
}

// SetActive soft-deactivates or reactivates a counter. Counters are never
// deleted.
func (s *SequenceService) SetActive(ctx context.Context, name string, active bool) error {
	if !counterNameRe.MatchString(name) {
		return fmt.Errorf("%w: counter name %q must be 2-30 characters of [A-Za-z0-9_]", ErrInvalidArgument, name)
	}
	if err := s.repo.SetActive(ctx, name, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: counter %q", ErrNotFound, name)
		}
		return fmt.Errorf("%w: updating counter %q: %v", ErrUnavailable, name, err)
	}
	return nil
}

// applyFormat substitutes the first run of '#' with the zero-padded
// sequence. A format without placeholders gets the digits appended.
func applyFormat(format string, seq int64) string {
	digits := strconv.FormatInt(seq, 10)
	start := strings.IndexByte(format, '#')
	if start < 0 {
		return format + digits
	}

	end := start
	for end < len(format) && format[end] == '#' {
		end++
	}
	if width := end - start; len(digits) < width {
		digits = strings.Repeat("0", width-len(digits)) + digits
	}
	return format[:start] + digits + format[end:]
}
