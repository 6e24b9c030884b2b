package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/HenryWConklin/blackjack/internal/logging"
	"github.com/HenryWConklin/blackjack/internal/ops"
	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// gizmoMode discriminates the three gizmo configurations of a pass.
type gizmoMode int

const (
	gizmosIgnored gizmoMode = iota
	gizmosInOut
	gizmosOutOnly
)

// GizmoConfig selects how gizmo hooks run for one evaluation pass.
// Exactly one variant is active per pass; build it with IgnoreGizmos,
// RunGizmosInOut, or RunGizmosOut.
type GizmoConfig struct {
	mode     gizmoMode
	gizmosIn []schema.Gizmo
}

// IgnoreGizmos disables gizmo hooks for the pass.
func IgnoreGizmos() GizmoConfig {
	return GizmoConfig{mode: gizmosIgnored}
}

// RunGizmosInOut enables gizmos, feeding a prior round's gizmo state into
// the target's pre-gizmo hook before its operation runs.
func RunGizmosInOut(gizmosIn []schema.Gizmo) GizmoConfig {
	return GizmoConfig{mode: gizmosInOut, gizmosIn: gizmosIn}
}

// RunGizmosOut enables gizmos with no prior input state: only the
// post-gizmo hook runs, seeding gizmo state for the next round.
func RunGizmosOut() GizmoConfig {
	return GizmoConfig{mode: gizmosOutOnly}
}

// Enabled reports whether gizmo hooks run at all under this config.
func (c GizmoConfig) Enabled() bool {
	return c.mode != gizmosIgnored
}

// interpreterContext is the mutable state threaded through one evaluation
// pass. Owned by RunGraph, passed by reference into the recursive runNode.
type interpreterContext struct {
	outputsCache map[schema.NodeID]map[string]any
	// The values for all the external parameters. Gizmo hooks may write
	// into this map as a side effect of interactive editing.
	externalParamValues schema.ExternalParameterValues
	registry            ops.Resolver
	targetNode          schema.NodeID
	gizmoConfig         GizmoConfig
	gizmoOutputs        []schema.Gizmo
	// visiting tracks nodes whose evaluation is in progress so a cyclic
	// graph fails fast instead of exhausting the stack.
	visiting map[schema.NodeID]bool
	logger   *slog.Logger
}

// RunGraph performs one evaluation pass rooted at the target node: it
// executes the target and every node transitively required by it, memoizing
// outputs so shared producers run at most once, then extracts the target's
// declared return output into the result bundle.
//
// The graph and registry are read-only for the duration of the pass. The
// external parameter values are mutably borrowed and handed back, possibly
// updated by gizmo hooks, in the result. Any failure aborts the whole pass;
// no partial result is returned.
func RunGraph(
	ctx context.Context,
	g *Graph,
	targetNode schema.NodeID,
	externalParamValues schema.ExternalParameterValues,
	registry ops.Resolver,
	gizmoConfig GizmoConfig,
) (*ProgramResult, error) {
	target, exists := g.Nodes[targetNode]
	if !exists {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "target node not in graph").WithNode(targetNode)
	}

	if externalParamValues == nil {
		externalParamValues = make(schema.ExternalParameterValues)
	}

	ictx := &interpreterContext{
		outputsCache:        make(map[schema.NodeID]map[string]any, len(g.Nodes)),
		externalParamValues: externalParamValues,
		registry:            registry,
		targetNode:          targetNode,
		gizmoConfig:         gizmoConfig,
		visiting:            make(map[schema.NodeID]bool),
		logger:              logging.LogWith(ctx, slog.Default()),
	}
	if gizmoConfig.Enabled() {
		ictx.gizmoOutputs = []schema.Gizmo{}
	}

	// Ensure the outputs cache is populated.
	if err := runNode(ctx, g, ictx, targetNode); err != nil {
		return nil, err
	}

	cached, ok := ictx.outputsCache[targetNode]
	if !ok {
		// Internal invariant violation, not a user error.
		return nil, schema.NewError(schema.ErrCodeExecution,
			"target node missing from outputs cache after evaluation").WithNode(targetNode)
	}

	var renderable *Renderable
	if target.ReturnOutput != "" {
		value, ok := cached[target.ReturnOutput]
		if !ok {
			return nil, schema.NewErrorf(schema.ErrCodeMissingReturn,
				"return output %q not among target outputs", target.ReturnOutput).WithNode(targetNode)
		}
		renderable = &Renderable{Value: value}
	}

	return &ProgramResult{
		Renderable:    renderable,
		UpdatedGizmos: ictx.gizmoOutputs,
		UpdatedValues: externalParamValues,
	}, nil
}

// runNode ensures the given node's outputs are present in the cache,
// recursively executing its unmet dependencies first.
func runNode(ctx context.Context, g *Graph, ictx *interpreterContext, nodeID schema.NodeID) error {
	// Memoization hit: a producer feeding multiple consumers runs once.
	if _, done := ictx.outputsCache[nodeID]; done {
		return nil
	}

	if ictx.visiting[nodeID] {
		return schema.NewError(schema.ErrCodeCycleDetected,
			"node is part of a dependency cycle").WithNode(nodeID)
	}
	ictx.visiting[nodeID] = true
	defer delete(ictx.visiting, nodeID)

	node, exists := g.Nodes[nodeID]
	if !exists {
		return schema.NewError(schema.ErrCodeNotFound, "node not in graph").WithNode(nodeID)
	}

	op, err := ictx.registry.Get(node.Op)
	if err != nil {
		return withNode(err, nodeID)
	}

	// Resolve the declared inputs in order, recursing into producers.
	inputMap := make(map[string]any, len(node.Inputs))
	for _, in := range node.Inputs {
		switch in.Kind {
		case schema.InputConnection:
			// Make sure the producer's outputs are there by running it.
			if _, cached := ictx.outputsCache[in.Node]; !cached {
				if err := runNode(ctx, g, ictx, in.Node); err != nil {
					return err
				}
			}
			producerOutputs, cached := ictx.outputsCache[in.Node]
			if !cached {
				return schema.NewError(schema.ErrCodeExecution,
					"producer missing from outputs cache after running").WithNode(in.Node)
			}
			value, ok := producerOutputs[in.Output]
			if !ok {
				return schema.NewErrorf(schema.ErrCodeMissingOutput,
					"input %q expects output %q which node %s did not produce",
					in.Name, in.Output, in.Node).WithNode(nodeID)
			}
			inputMap[in.Name] = value

		case schema.InputExternal:
			param := schema.NewExternalParameter(nodeID, in.Name)
			value, ok := ictx.externalParamValues.Get(param)
			if !ok {
				return schema.NewErrorf(schema.ErrCodeMissingParam,
					"could not retrieve external parameter %q", in.Name).
					WithNode(nodeID).
					WithDetails(map[string]any{"param_name": in.Name})
			}
			inputMap[in.Name] = value

		default:
			return schema.NewErrorf(schema.ErrCodeValidation,
				"input %q has unknown kind: %s", in.Name, in.Kind).WithNode(nodeID)
		}
	}

	isGizmoTarget := ictx.gizmoConfig.Enabled() && nodeID == ictx.targetNode && op.Info().HasGizmo
	opCtx := logging.WithNodeID(ctx, string(nodeID))
	// Interactive hooks may write edited parameter values back through the
	// context; the engine itself only reads the store.
	opCtx = ops.WithParamValues(opCtx, ictx.externalParamValues)

	// Run pre-gizmo: only when the active config supplies prior gizmo state.
	if isGizmoTarget && ictx.gizmoConfig.mode == gizmosInOut {
		gizmoOp, ok := op.(ops.GizmoOperation)
		if !ok {
			return schema.NewErrorf(schema.ErrCodeGizmoHookMissing,
				"operation %q declares gizmo support but implements no hooks", node.Op).WithNode(nodeID)
		}
		newInputMap, err := gizmoOp.PreGizmo(opCtx, inputMap, ictx.gizmoConfig.gizmosIn)
		if err != nil {
			return withNode(err, nodeID)
		}
		if newInputMap == nil {
			return schema.NewErrorf(schema.ErrCodeOpContract,
				"pre-gizmo hook of %q must return a replacement input map", node.Op).WithNode(nodeID)
		}
		inputMap = newInputMap
	}

	// Run the node's operation.
	outputs, err := op.Call(opCtx, inputMap)
	if err != nil {
		return withNode(err, nodeID)
	}
	if outputs == nil {
		return schema.NewErrorf(schema.ErrCodeOpContract,
			"operation %q must return an output map", node.Op).WithNode(nodeID)
	}

	ictx.outputsCache[nodeID] = outputs

	ictx.logger.Debug("node executed",
		slog.String("node_id", string(nodeID)),
		slog.String("op", node.Op))

	// Run post-gizmo: whenever gizmos are enabled for the target, regardless
	// of whether the pre-hook ran. The result replaces the accumulator; a
	// pass has exactly one target, so only its gizmo set is kept.
	if isGizmoTarget {
		gizmoOp, ok := op.(ops.GizmoOperation)
		if !ok {
			return schema.NewErrorf(schema.ErrCodeGizmoHookMissing,
				"operation %q declares gizmo support but implements no hooks", node.Op).WithNode(nodeID)
		}
		gizmos, err := gizmoOp.PostGizmo(opCtx, outputs)
		if err != nil {
			return withNode(err, nodeID)
		}
		if gizmos == nil {
			return schema.NewErrorf(schema.ErrCodeOpContract,
				"post-gizmo hook of %q must return a gizmo sequence", node.Op).WithNode(nodeID)
		}
		ictx.gizmoOutputs = gizmos
	}

	return nil
}

// withNode enriches a structured error with the offending node's identity
// when it does not already carry one.
func withNode(err error, nodeID schema.NodeID) error {
	var typed *schema.Error
	if errors.As(err, &typed) && typed.NodeID == "" {
		typed.NodeID = nodeID
	}
	return err
}
