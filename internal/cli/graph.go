package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fridex/nodenator/internal/compiler"
	"github.com/fridex/nodenator/internal/graph"
	"github.com/fridex/nodenator/internal/predicate"
	"github.com/fridex/nodenator/internal/predicates"
)

// loadedGraph is a compiled graph together with the registry its leaves
// were resolved against.
type loadedGraph struct {
	Path     string
	Graph    *graph.Graph
	Registry *predicate.Registry
}

// loadGraph compiles the graph description at path with the built-in
// leaf predicates. Failures are reported through formatter and returned
// as command errors (exit code 2).
func loadGraph(formatter *OutputFormatter, path string) (*loadedGraph, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("graph not found: %s", path))
		}
		return nil, outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("error accessing graph: %v", err))
	}

	reg := predicates.NewRegistry()
	g, err := compiler.CompileFile(path, predicate.NewBuilder(reg))
	if err != nil {
		return nil, outputGraphErrors(formatter, err)
	}
	formatter.VerboseLog("Loaded %d node(s), %d edge(s) from %s", len(g.Nodes()), len(g.Edges()), path)

	return &loadedGraph{Path: path, Graph: g, Registry: reg}, nil
}

// outputCommandError reports a single error and returns it as a command
// error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputGraphErrors reports why a graph failed to compile. Validation
// errors are listed one by one with their own codes; CUE errors carry
// their source position.
func outputGraphErrors(formatter *OutputFormatter, err error) error {
	cliErrors := graphErrors(err)

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if encErr := encoder.Encode(response); encErr != nil {
			return encErr
		}
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
		fmt.Fprintln(formatter.Writer)

		var compileErr *compiler.CompileError
		if errors.As(err, &compileErr) && compileErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				compileErr.Pos.Filename(),
				compileErr.Pos.Line(),
				compileErr.Pos.Column())
		}
		for _, e := range cliErrors {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", e.Code, e.Message)
		}
		fmt.Fprintln(formatter.Writer)
	}

	return WrapExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(cliErrors)), err)
}

// graphErrors flattens a compile error into CLI errors.
func graphErrors(err error) []CLIError {
	var verrs compiler.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]CLIError, len(verrs))
		for i, v := range verrs {
			out[i] = CLIError{Code: v.Code, Message: fmt.Sprintf("%s: %s", v.Field, v.Message)}
		}
		return out
	}

	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return []CLIError{{Code: ErrCodeCompile, Message: compileErr.Error()}}
	}
	return []CLIError{{Code: ErrCodeCompile, Message: err.Error()}}
}
