package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/HenryWConklin/blackjack/internal/logging"
)

const usage = `usage: blackjack <command> [arguments]

Commands:
  validate <graph.json>     check a graph document without evaluating it
  run      <graph.json>     evaluate a graph and print its renderable
  export   <graph.json>     render a graph as a Mermaid flowchart or PNG
  import   <graph.json>     save a graph document into the local store
  runs                      list recorded runs of a stored graph
  bake                      manage and serve scheduled bake jobs

Run 'blackjack <command> -h' for command flags.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := loadConfig()
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	var err error
	switch os.Args[1] {
	case "validate":
		err = cmdValidate(os.Args[2:])
	case "run":
		err = cmdRun(os.Args[2:], logger)
	case "export":
		err = cmdExport(os.Args[2:])
	case "import":
		err = cmdImport(os.Args[2:], cfg, logger)
	case "runs":
		err = cmdRuns(os.Args[2:], cfg)
	case "bake":
		err = cmdBake(os.Args[2:], cfg, logger)
	case "-h", "--help", "help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger: JSON records on stderr with
// correlation IDs injected from the context.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	inner := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(logging.NewCorrelationHandler(inner))
}
