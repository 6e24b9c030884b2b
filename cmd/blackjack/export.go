package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/HenryWConklin/blackjack/internal/diagram"
	"github.com/HenryWConklin/blackjack/pkg/schema"
)

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "mermaid", "output format: mermaid or png")
	target := fs.String("target", "", "node to highlight (default: the graph's default_target)")
	out := fs.String("o", "", "output file (default: stdout; required for png)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: blackjack export [flags] <graph.json>")
	}

	def, err := loadGraphFile(fs.Arg(0))
	if err != nil {
		return err
	}
	model := diagram.BuildModel(def, schema.NodeID(*target))

	switch *format {
	case "mermaid":
		rendered := diagram.RenderMermaid(model)
		if *out == "" {
			fmt.Print(rendered)
			return nil
		}
		return os.WriteFile(*out, []byte(rendered), 0o644)
	case "png":
		if *out == "" {
			return fmt.Errorf("png output needs -o <file>")
		}
		png, err := diagram.RenderImage(model)
		if err != nil {
			return err
		}
		return os.WriteFile(*out, png, 0o644)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}
