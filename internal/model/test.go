package model

import (
	"time"

	"github.com/google/uuid"
)

// TestStatus enumerates the possible states of a test.
type TestStatus string

const (
	TestStatusDraft     TestStatus = "DRAFT"
	TestStatusPublished TestStatus = "PUBLISHED"
	TestStatusArchived  TestStatus = "ARCHIVED"
)

// Test represents a deliverable exam built from a catalog pattern.
// The availability window is [ScheduledStart, ExpiresAt]; a nil bound
// leaves that side open.
type Test struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	PatternID      string     `json:"pattern_id"`
	AuthorID       int        `json:"author_id"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	// RankingEnabled marks the test as competitive: completions feed the
	// rank/percentile table.
	RankingEnabled bool       `json:"ranking_enabled"`
	Status         TestStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// AvailableAt reports whether the test's scheduling window includes now.
func (t *Test) AvailableAt(now time.Time) bool {
	if t.ScheduledStart != nil && now.Before(*t.ScheduledStart) {
		return false
	}
	if t.ExpiresAt != nil && now.After(*t.ExpiresAt) {
		return false
	}
	return true
}

// CreateTestRequest is the payload for creating a new test.
type CreateTestRequest struct {
	Title          string     `json:"title" binding:"required,min=3,max=255"`
	PatternID      string     `json:"pattern_id" binding:"required,min=2,max=40"`
	ScheduledStart *time.Time `json:"scheduled_start" binding:"omitempty"`
	ExpiresAt      *time.Time `json:"expires_at" binding:"omitempty,gtfield=ScheduledStart"`
	RankingEnabled *bool      `json:"ranking_enabled" binding:"omitempty"`
}

// UpdateTestRequest is the payload for updating an existing draft test.
type UpdateTestRequest struct {
	Title          string     `json:"title" binding:"omitempty,min=3,max=255"`
	ScheduledStart *time.Time `json:"scheduled_start" binding:"omitempty"`
	ExpiresAt      *time.Time `json:"expires_at" binding:"omitempty,gtfield=ScheduledStart"`
	RankingEnabled *bool      `json:"ranking_enabled" binding:"omitempty"`
}
