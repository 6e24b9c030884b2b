package store

import (
	"encoding/json"
	"time"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// GraphRecord is a stored graph document.
type GraphRecord struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Definition schema.GraphDefinition `json:"definition"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// Run statuses.
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// BakeJob schedules recurring headless evaluations of a stored graph.
type BakeJob struct {
	ID             string     `json:"id"`
	GraphID        string     `json:"graph_id"`
	CronExpression string     `json:"cron_expression"`
	Enabled        bool       `json:"enabled"`
	LastRunAt      *time.Time `json:"last_run_at,omitempty"`
	NextRunAt      *time.Time `json:"next_run_at,omitempty"`
	LastRunStatus  string     `json:"last_run_status,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// BakeJobUpdate carries the fields the scheduler rewrites after each run.
// Nil pointers leave the stored value untouched.
type BakeJobUpdate struct {
	LastRunAt     *time.Time
	NextRunAt     *time.Time
	LastRunStatus string
}

// RunRecord summarizes one headless evaluation pass over a stored graph.
type RunRecord struct {
	ID          string          `json:"id"`
	GraphID     string          `json:"graph_id"`
	Target      schema.NodeID   `json:"target"`
	Status      string          `json:"status"`
	Renderable  json.RawMessage `json:"renderable,omitempty"`
	Error       string          `json:"error,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
}
