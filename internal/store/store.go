package store

import (
	"context"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// Store persists graph documents, their external parameter values, and
// evaluation run records. The engine itself never touches the store; it is
// the external collaborator that owns graph persistence, wired together
// with the engine by the CLI and the bake scheduler.
type Store interface {
	SaveGraph(ctx context.Context, rec *GraphRecord) error
	GetGraph(ctx context.Context, id string) (*GraphRecord, error)
	ListGraphs(ctx context.Context) ([]*GraphRecord, error)
	DeleteGraph(ctx context.Context, id string) error

	// SaveParams replaces the stored external parameter values of a graph.
	SaveParams(ctx context.Context, graphID string, values schema.ExternalParameterValues) error
	GetParams(ctx context.Context, graphID string) (schema.ExternalParameterValues, error)

	SaveBakeJob(ctx context.Context, job *BakeJob) error
	ListBakeJobs(ctx context.Context, enabledOnly bool) ([]*BakeJob, error)
	UpdateBakeJob(ctx context.Context, id string, update BakeJobUpdate) error
	DeleteBakeJob(ctx context.Context, id string) error

	RecordRun(ctx context.Context, run *RunRecord) error
	ListRuns(ctx context.Context, graphID string, limit int) ([]*RunRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}
