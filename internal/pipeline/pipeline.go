package pipeline

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute runs the extraction pipeline for a single run request. It builds
// the state graph (extract → fieldmap → merge → bind → finalize, with
// shortcut edges to finalize when no document survives a stage), executes
// it, and extracts the Result from the final state. Cancellation aborts
// in-flight document work and yields a failed Result.
func Execute(ctx context.Context, rt *Runtime, req Request) (*Result, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initial := state.New(nil)
	initial = initial.Set(KeyRequest, req)
	initial = initial.Set(KeyRunState, runState{})

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		if ctx.Err() != nil {
			return canceledResult(req, ctx.Err()), nil
		}
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(final)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("scrivener-run")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("extract", ExtractNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("fieldmap", FieldMapNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("merge", MergeNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("bind", BindNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("finalize", FinalizeNode(rt)); err != nil {
		return nil, err
	}

	// extract → fieldmap (when any document yielded text)
	if err := graph.AddEdge("extract", "fieldmap", hasTexts); err != nil {
		return nil, err
	}

	// extract → finalize (when nothing survived extraction)
	if err := graph.AddEdge("extract", "finalize", state.Not(hasTexts)); err != nil {
		return nil, err
	}

	// fieldmap → merge (when any document yielded a field map)
	if err := graph.AddEdge("fieldmap", "merge", hasFieldMaps); err != nil {
		return nil, err
	}

	// fieldmap → finalize (when every model call failed)
	if err := graph.AddEdge("fieldmap", "finalize", state.Not(hasFieldMaps)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("merge", "bind", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("bind", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("extract"); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

func unpack(s state.State) (Request, runState, error) {
	reqVal, ok := s.Get(KeyRequest)
	if !ok {
		return Request{}, runState{}, fmt.Errorf("%w: missing %s", ErrInvalidState, KeyRequest)
	}
	req, ok := reqVal.(Request)
	if !ok {
		return Request{}, runState{}, fmt.Errorf("%w: %s is not Request", ErrInvalidState, KeyRequest)
	}

	rsVal, ok := s.Get(KeyRunState)
	if !ok {
		return Request{}, runState{}, fmt.Errorf("%w: missing %s", ErrInvalidState, KeyRunState)
	}
	rs, ok := rsVal.(runState)
	if !ok {
		return Request{}, runState{}, fmt.Errorf("%w: %s is not runState", ErrInvalidState, KeyRunState)
	}

	return req, rs, nil
}

func extractResult(s state.State) (*Result, error) {
	val, ok := s.Get(KeyResult)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s in final state", ErrInvalidState, KeyResult)
	}

	result, ok := val.(Result)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not Result", ErrInvalidState, KeyResult)
	}

	return &result, nil
}

func canceledResult(req Request, cause error) *Result {
	return &Result{
		RunID:  req.RunID,
		Status: StatusFailed,
		Diagnostics: []Diagnostic{{
			Stage:    "run",
			Severity: SeverityError,
			Code:     CodeCanceled,
			Message:  fmt.Sprintf("run canceled: %v", cause),
		}},
		CompletedAt: time.Now().UTC(),
	}
}

func hasTexts(s state.State) bool {
	_, rs, err := unpack(s)
	return err == nil && len(rs.Texts) > 0
}

func hasFieldMaps(s state.State) bool {
	_, rs, err := unpack(s)
	return err == nil && len(rs.FieldMaps) > 0
}
