package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/HenryWConklin/blackjack/internal/engine"
	"github.com/HenryWConklin/blackjack/internal/scheduler"
	"github.com/HenryWConklin/blackjack/internal/store"
	"github.com/HenryWConklin/blackjack/internal/validation"
)

func openStore(cfg Config) (*store.LibSQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s, err := store.NewLibSQLStore("file:" + cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(context.Background()); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func cmdImport(args []string, cfg Config, logger *slog.Logger) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	id := fs.String("id", "", "graph id (default: a new UUID)")
	name := fs.String("name", "", "display name")
	withParams := fs.Bool("save-params", false, "also store --param values with the graph")
	var params paramFlags
	fs.Var(&params, "param", "external parameter as node.name=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: blackjack import [flags] <graph.json>")
	}

	def, err := loadGraphFile(fs.Arg(0))
	if err != nil {
		return err
	}

	reg, err := newRegistry()
	if err != nil {
		return err
	}
	gv, err := validation.NewGraphValidator(reg)
	if err != nil {
		return err
	}
	if err := gv.ValidateDefinition(def); err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	graphID := *id
	if graphID == "" {
		graphID = uuid.New().String()
	}
	rec := &store.GraphRecord{ID: graphID, Name: *name, Definition: *def}
	if err := s.SaveGraph(context.Background(), rec); err != nil {
		return err
	}
	if *withParams && params.values != nil {
		if err := s.SaveParams(context.Background(), graphID, params.values); err != nil {
			return err
		}
	}

	logger.Info("graph imported", slog.String("graph_id", graphID))
	fmt.Println(graphID)
	return nil
}

func cmdRuns(args []string, cfg Config) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	graphID := fs.String("graph-id", "", "stored graph id")
	limit := fs.Int("limit", 20, "max runs to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *graphID == "" {
		return fmt.Errorf("usage: blackjack runs -graph-id <id>")
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(context.Background(), *graphID, *limit)
	if err != nil {
		return err
	}
	for _, run := range runs {
		line := fmt.Sprintf("%s  %-9s  target=%s  %s",
			run.StartedAt.Format(time.RFC3339), run.Status, run.Target, run.ID)
		if run.Error != "" {
			line += "  " + run.Error
		}
		fmt.Println(line)
	}
	return nil
}

func cmdBake(args []string, cfg Config, logger *slog.Logger) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: blackjack bake <add|list|remove|serve> [flags]")
	}
	switch args[0] {
	case "add":
		return bakeAdd(args[1:], cfg)
	case "list":
		return bakeList(args[1:], cfg)
	case "remove":
		return bakeRemove(args[1:], cfg)
	case "serve":
		return bakeServe(args[1:], cfg, logger)
	default:
		return fmt.Errorf("unknown bake command %q", args[0])
	}
}

func bakeAdd(args []string, cfg Config) error {
	fs := flag.NewFlagSet("bake add", flag.ExitOnError)
	graphID := fs.String("graph-id", "", "stored graph id")
	cronExpr := fs.String("cron", "", "cron expression, e.g. '0 3 * * *'")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *graphID == "" || *cronExpr == "" {
		return fmt.Errorf("usage: blackjack bake add -graph-id <id> -cron <expr>")
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	// The graph must exist, and the cron expression must parse.
	if _, err := s.GetGraph(context.Background(), *graphID); err != nil {
		return err
	}
	sched := scheduler.NewScheduler(s, nil, nil)
	next, err := sched.CalculateNextRun(*cronExpr, time.Now().UTC())
	if err != nil {
		return err
	}

	job := &store.BakeJob{
		ID:             uuid.New().String(),
		GraphID:        *graphID,
		CronExpression: *cronExpr,
		Enabled:        true,
		NextRunAt:      &next,
	}
	if err := s.SaveBakeJob(context.Background(), job); err != nil {
		return err
	}
	fmt.Println(job.ID)
	return nil
}

func bakeList(args []string, cfg Config) error {
	fs := flag.NewFlagSet("bake list", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	jobs, err := s.ListBakeJobs(context.Background(), false)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		next := "-"
		if job.NextRunAt != nil {
			next = job.NextRunAt.Format(time.RFC3339)
		}
		fmt.Printf("%s  graph=%s  cron=%q  enabled=%t  next=%s  last=%s\n",
			job.ID, job.GraphID, job.CronExpression, job.Enabled, next, job.LastRunStatus)
	}
	return nil
}

func bakeRemove(args []string, cfg Config) error {
	fs := flag.NewFlagSet("bake remove", flag.ExitOnError)
	id := fs.String("id", "", "bake job id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("usage: blackjack bake remove -id <job-id>")
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.DeleteBakeJob(context.Background(), *id)
}

func bakeServe(args []string, cfg Config, logger *slog.Logger) error {
	fs := flag.NewFlagSet("bake serve", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	reg, err := newRegistry()
	if err != nil {
		return err
	}
	runner := engine.NewStoredRunner(s, reg, logger)
	sched := scheduler.NewScheduler(s, runner, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return sched.Stop()
}
