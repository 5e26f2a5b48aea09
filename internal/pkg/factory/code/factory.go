package code

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"parcelflow/internal/entities"
)

// crockford base32 без I, L, O, U: код диктуют по телефону и переписывают с этикетки.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const DefaultMaxAttempts = 5

var ErrCodeSpaceExhausted = errors.New("could not allocate a unique code")

// Checker проверяет занятость кода в хранилище.
type Checker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

type format struct {
	prefix     string
	dateLayout string
	suffixLen  int
}

type allocator struct {
	checker     Checker
	format      format
	maxAttempts int
	random      io.Reader
}

func newAllocator(checker Checker, f format, maxAttempts int) allocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return allocator{
		checker:     checker,
		format:      f,
		maxAttempts: maxAttempts,
		random:      rand.Reader,
	}
}

func (a allocator) allocate(ctx context.Context, station entities.Station, date time.Time) (string, error) {
	stationCode := strings.ToUpper(strings.TrimSpace(station.Code))
	if stationCode == "" {
		return "", fmt.Errorf("station %d has no code", station.ID)
	}

	prefix := a.format.prefix + stationCode + "-" + date.UTC().Format(a.format.dateLayout) + "-"

	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		suffix, err := a.suffix()
		if err != nil {
			return "", fmt.Errorf("generate code suffix: %w", err)
		}

		candidate := prefix + suffix
		exists, err := a.checker.CodeExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check code %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, a.maxAttempts)
}

func (a allocator) suffix() (string, error) {
	buf := make([]byte, a.format.suffixLen)
	if _, err := io.ReadFull(a.random, buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		// 256 делится на 32 без остатка, смещения нет
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}

// TrackingCodes выдаёт трек-номера вида NBO-261015-7GQ2XK:
// станция отправления, дата приёма и случайный суффикс.
type TrackingCodes struct {
	allocator
	now func() time.Time
}

func NewTrackingCodes(checker Checker, maxAttempts int) *TrackingCodes {
	return &TrackingCodes{
		allocator: newAllocator(checker, format{dateLayout: "060102", suffixLen: 6}, maxAttempts),
		now:       time.Now,
	}
}

func (t *TrackingCodes) Allocate(ctx context.Context, origin entities.Station) (string, error) {
	return t.allocate(ctx, origin, t.now())
}

// BatchCodes выдаёт коды рейсов вида BT-NBO-20261015-4KQZ.
type BatchCodes struct {
	allocator
}

func NewBatchCodes(checker Checker, maxAttempts int) *BatchCodes {
	return &BatchCodes{
		allocator: newAllocator(checker, format{prefix: "BT-", dateLayout: "20060102", suffixLen: 4}, maxAttempts),
	}
}

func (b *BatchCodes) Allocate(ctx context.Context, origin entities.Station, tripDate time.Time) (string, error) {
	return b.allocate(ctx, origin, tripDate)
}
