// README: Process-wide settings document: cancel threshold and staff password.
package settings

import (
	"errors"
	"time"
)

var ErrNotInitialized = errors.New("settings not initialized")

const (
	// Threshold bounds; any set operation clamps into this range.
	MinCancelThreshold     = 1
	MaxCancelThreshold     = 10
	DefaultCancelThreshold = 3

	// First-run staff password, matching the seeded hash.
	DefaultStaffPassword = "admin123"
)

type Settings struct {
	AdminPasswordHash string    `json:"adminPasswordHash" firestore:"adminPasswordHash"`
	CancelThreshold   int       `json:"cancelThreshold24h" firestore:"cancelThreshold24h"`
	CreatedAt         time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// ClampThreshold coerces n into [MinCancelThreshold, MaxCancelThreshold].
// Zero or negative garbage from a missing field coerces to the bounds the
// same way; callers with non-numeric input pass the default instead.
func ClampThreshold(n int) int {
	if n < MinCancelThreshold {
		return MinCancelThreshold
	}
	if n > MaxCancelThreshold {
		return MaxCancelThreshold
	}
	return n
}

func Defaults(now time.Time, passwordHash string) *Settings {
	return &Settings{
		AdminPasswordHash: passwordHash,
		CancelThreshold:   DefaultCancelThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
