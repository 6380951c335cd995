// Package repository stores scored heats by heat ID.
package repository

import (
	"context"
	"time"

	"github.com/okian/wildcat/internal/domain/heat"
)

// Status is where a heat is in the scoring pipeline.
type Status string

// Heat statuses.
const (
	StatusPending Status = "pending"
	StatusScored  Status = "scored"
	StatusFailed  Status = "failed"
)

// Record is one submitted heat and, once scored, its results.
type Record struct {
	ID           string
	SubmissionID string
	Mode         heat.Mode
	Status       Status
	Error        string
	Finishers    int
	Heat         heat.Heat
	ReceivedAt   time.Time
	ScoredAt     time.Time
}

// Store provides read/write access to heat records.
type Store interface {
	// Put inserts or replaces the record with r.ID.
	Put(ctx context.Context, r Record) error

	// Insert stores r only when no record with r.ID exists and reports
	// whether it did.
	Insert(ctx context.Context, r Record) (bool, error)

	// Get returns the record for id or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// List returns up to limit records in the order they were first put.
	// A limit of 0 returns every record.
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes the record for id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) int

	// Close drops every record.
	Close() error
}
