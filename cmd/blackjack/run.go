package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/HenryWConklin/blackjack/internal/engine"
	"github.com/HenryWConklin/blackjack/internal/ops"
	"github.com/HenryWConklin/blackjack/internal/validation"
	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// paramFlags collects repeated --param node.name=value flags. Values are
// parsed as JSON; anything that does not parse is kept as a plain string.
type paramFlags struct {
	values schema.ExternalParameterValues
}

func (p *paramFlags) String() string { return "" }

func (p *paramFlags) Set(raw string) error {
	key, encoded, ok := strings.Cut(raw, "=")
	if !ok {
		return fmt.Errorf("param %q: want node.name=value", raw)
	}
	dot := strings.LastIndex(key, ".")
	if dot <= 0 || dot == len(key)-1 {
		return fmt.Errorf("param %q: want node.name=value", raw)
	}
	node, name := key[:dot], key[dot+1:]

	var value any
	if err := json.Unmarshal([]byte(encoded), &value); err != nil {
		value = encoded
	}
	if p.values == nil {
		p.values = make(schema.ExternalParameterValues)
	}
	p.values.Set(schema.NewExternalParameter(schema.NodeID(node), name), value)
	return nil
}

func loadGraphFile(path string) (*schema.GraphDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	var def schema.GraphDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse graph: %w", err)
	}
	return &def, nil
}

func newRegistry() (*ops.Registry, error) {
	reg := ops.NewRegistry()
	if err := ops.RegisterBuiltins(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func cmdValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: blackjack validate <graph.json>")
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

	result := gv.Validate(def)
	for _, issue := range result.Errors {
		fmt.Printf("error   %s: %s\n", issue.Path, issue.Message)
	}
	for _, issue := range result.Warnings {
		fmt.Printf("warning %s: %s\n", issue.Path, issue.Message)
	}
	if !result.Valid() {
		return fmt.Errorf("graph is invalid (%d errors)", len(result.Errors))
	}
	fmt.Println("graph is valid")
	return nil
}

func cmdRun(args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	target := fs.String("target", "", "node to evaluate (default: the graph's default_target)")
	gizmos := fs.String("gizmos", "off", "gizmo mode: off, out, or in-out")
	var params paramFlags
	fs.Var(&params, "param", "external parameter as node.name=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: blackjack run [flags] <graph.json>")
	}

	def, err := loadGraphFile(fs.Arg(0))
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	g, err := engine.ParseGraph(def)
	if err != nil {
		return err
	}

	targetNode := schema.NodeID(*target)
	if targetNode == "" {
		targetNode = def.DefaultTarget
	}
	if targetNode == "" {
		return fmt.Errorf("no target: pass -target or set default_target in the graph")
	}

	var gizmoConfig engine.GizmoConfig
	switch *gizmos {
	case "off":
		gizmoConfig = engine.IgnoreGizmos()
	case "out":
		gizmoConfig = engine.RunGizmosOut()
	case "in-out":
		gizmoConfig = engine.RunGizmosInOut(nil)
	default:
		return fmt.Errorf("unknown gizmo mode %q", *gizmos)
	}

	result, err := engine.RunGraph(context.Background(), g, targetNode, params.values, reg, gizmoConfig)
	if err != nil {
		return err
	}

	out := map[string]any{}
	if result.Renderable != nil {
		out["renderable"] = result.Renderable.Value
	}
	if result.UpdatedGizmos != nil {
		out["gizmos"] = result.UpdatedGizmos
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))

	logger.Debug("run finished", slog.String("target", string(targetNode)))
	return nil
}
