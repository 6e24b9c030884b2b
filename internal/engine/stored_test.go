package engine

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HenryWConklin/blackjack/internal/ops"
	"github.com/HenryWConklin/blackjack/internal/store"
	"github.com/HenryWConklin/blackjack/pkg/schema"
)

func newRunnerFixture(t *testing.T) (*StoredRunner, *store.LibSQLStore) {
	t.Helper()
	s, err := store.NewLibSQLStore("file:" + filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}

	reg := ops.NewRegistry()
	if err := ops.RegisterBuiltins(reg); err != nil {
		t.Fatal(err)
	}
	return NewStoredRunner(s, reg, nil), s
}

func TestRunStored_Completed(t *testing.T) {
	runner, s := newRunnerFixture(t)
	ctx := context.Background()

	def := schema.GraphDefinition{
		DefaultTarget: "out",
		Nodes: []schema.NodeDefinition{
			{ID: "out", Op: "util.echo", ReturnOutput: "x", Inputs: []schema.Input{ext("x")}},
		},
	}
	if err := s.SaveGraph(ctx, &store.GraphRecord{ID: "g1", Definition: def}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveParams(ctx, "g1", schema.ExternalParameterValues{
		schema.NewExternalParameter("out", "x"): 42.0,
	}); err != nil {
		t.Fatal(err)
	}

	run, err := runner.RunStored(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != store.RunStatusCompleted {
		t.Errorf("expected completed, got %s", run.Status)
	}
	if !strings.Contains(string(run.Renderable), "42") {
		t.Errorf("expected renderable carrying 42, got %s", run.Renderable)
	}

	runs, err := s.ListRuns(ctx, "g1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Errorf("expected the run on record, got %+v", runs)
	}
}

func TestRunStored_EvalFailureRecorded(t *testing.T) {
	runner, s := newRunnerFixture(t)
	ctx := context.Background()

	// No saved params: the external input is missing at run time.
	def := schema.GraphDefinition{
		DefaultTarget: "out",
		Nodes: []schema.NodeDefinition{
			{ID: "out", Op: "util.echo", Inputs: []schema.Input{ext("x")}},
		},
	}
	if err := s.SaveGraph(ctx, &store.GraphRecord{ID: "g1", Definition: def}); err != nil {
		t.Fatal(err)
	}

	run, err := runner.RunStored(ctx, "g1")
	assertCode(t, err, schema.ErrCodeMissingParam)
	if run == nil || run.Status != store.RunStatusFailed {
		t.Fatalf("expected failed run record, got %+v", run)
	}
	if !strings.Contains(run.Error, "MISSING_EXTERNAL_PARAMETER") {
		t.Errorf("expected error code in record, got %q", run.Error)
	}
}

func TestRunStored_NoDefaultTarget(t *testing.T) {
	runner, s := newRunnerFixture(t)
	ctx := context.Background()

	def := schema.GraphDefinition{
		Nodes: []schema.NodeDefinition{{ID: "a", Op: "util.echo"}},
	}
	if err := s.SaveGraph(ctx, &store.GraphRecord{ID: "g1", Definition: def}); err != nil {
		t.Fatal(err)
	}

	_, err := runner.RunStored(ctx, "g1")
	assertCode(t, err, schema.ErrCodeValidation)
}

func TestRunStored_GraphNotFound(t *testing.T) {
	runner, _ := newRunnerFixture(t)

	_, err := runner.RunStored(context.Background(), "missing")
	assertCode(t, err, schema.ErrCodeNotFound)
}
