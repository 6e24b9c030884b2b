package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/HenryWConklin/blackjack/internal/logging"
	"github.com/HenryWConklin/blackjack/internal/ops"
	"github.com/HenryWConklin/blackjack/internal/store"
	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// StoredRunner evaluates graphs persisted in the store: it loads the graph
// document and its saved external parameter values, runs one gizmo-less
// pass at the graph's default target, and records the outcome as a run.
// Headless entry points (the CLI's bake mode, the scheduler) go through it.
type StoredRunner struct {
	store    store.Store
	registry ops.Resolver
	logger   *slog.Logger
}

// NewStoredRunner creates a StoredRunner.
func NewStoredRunner(s store.Store, registry ops.Resolver, logger *slog.Logger) *StoredRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoredRunner{store: s, registry: registry, logger: logger}
}

// RunStored performs one evaluation pass over the stored graph and records
// a run. The returned record is always populated when evaluation was
// attempted; the error reports evaluation or store failures.
func (r *StoredRunner) RunStored(ctx context.Context, graphID string) (*store.RunRecord, error) {
	rec, err := r.store.GetGraph(ctx, graphID)
	if err != nil {
		return nil, err
	}

	target := rec.Definition.DefaultTarget
	if target == "" {
		return nil, schema.NewErrorf(schema.ErrCodeValidation,
			"graph %s has no default target for headless runs", graphID)
	}

	values, err := r.store.GetParams(ctx, graphID)
	if err != nil {
		return nil, err
	}

	graph, err := ParseGraph(&rec.Definition)
	if err != nil {
		return nil, err
	}

	run := &store.RunRecord{
		ID:        uuid.New().String(),
		GraphID:   graphID,
		Target:    target,
		StartedAt: time.Now().UTC(),
	}

	ctx = logging.WithGraphID(ctx, graphID)
	ctx = logging.WithRunID(ctx, run.ID)
	logger := logging.LogWith(ctx, r.logger)

	result, evalErr := RunGraph(ctx, graph, target, values, r.registry, IgnoreGizmos())
	run.CompletedAt = time.Now().UTC()

	if evalErr != nil {
		run.Status = store.RunStatusFailed
		run.Error = evalErr.Error()
		logger.Error("stored graph evaluation failed", slog.String("error", evalErr.Error()))
	} else {
		run.Status = store.RunStatusCompleted
		if result.Renderable != nil {
			encoded, err := json.Marshal(result.Renderable)
			if err != nil {
				return nil, schema.NewError(schema.ErrCodeStore, "marshal renderable").WithCause(err)
			}
			run.Renderable = encoded
		}
		logger.Info("stored graph evaluated",
			slog.Duration("elapsed", run.CompletedAt.Sub(run.StartedAt)))
	}

	if err := r.store.RecordRun(ctx, run); err != nil {
		return run, err
	}
	return run, evalErr
}
