package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fridex/nodenator/internal/compiler"
	"github.com/fridex/nodenator/internal/graph"
	"github.com/fridex/nodenator/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult is the JSON payload of a successful compile.
type CompilationResult struct {
	Graph       map[string]any           `json:"graph"`
	Fingerprint string                   `json:"fingerprint"`
	Warnings    []compiler.CycleWarning  `json:"warnings"`
	Shadowed    []compiler.ShadowWarning `json:"shadowed"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <graph>",
		Short: "Load and validate a graph description",
		Long: `Load a graph description (YAML, JSON or CUE), validate it and print
its nodes and edges with every guard in canonical form.

Cycles between nodes are reported as warnings.

Examples:
  nodenator compile ./plant.yaml
  nodenator compile ./plant.cue --format json
  nodenator compile ./plant.yaml -o plant.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the canonical graph description to this file")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := loadGraph(formatter, path)
	if err != nil {
		return err
	}
	g := loaded.Graph

	fingerprint, err := g.Fingerprint()
	if err != nil {
		return outputCommandError(formatter, ErrCodeCompile, fmt.Sprintf("fingerprint: %v", err))
	}

	result := &CompilationResult{
		Graph:       g.Describe(),
		Fingerprint: fingerprint,
		Warnings:    compiler.AnalyzeCycles(g),
		Shadowed:    compiler.AnalyzeShadowing(g),
	}

	if opts.Output != "" {
		if err := writeGraphToFile(result.Graph, opts.Output); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	outputCompileText(formatter, g, result, opts.Output)
	return nil
}

// outputCompileText prints the compiled graph in human-readable form.
func outputCompileText(formatter *OutputFormatter, g *graph.Graph, result *CompilationResult, outputFile string) {
	w := formatter.Writer
	nodes, edges := g.Nodes(), g.Edges()

	fmt.Fprintf(w, "✓ Compiled %d node(s), %d edge(s)\n\n", len(nodes), len(edges))

	if len(nodes) > 0 {
		fmt.Fprintln(w, "Nodes:")
		for _, n := range nodes {
			comparison := string(n.Comparison().Type())
			if imp, ok := n.ComparisonImport(); ok {
				comparison += " " + imp
			}
			fmt.Fprintf(w, "  %s [%s]\n", n.Name(), comparison)
			if c := n.InputCondition(); c != nil {
				fmt.Fprintf(w, "    input:  %s\n", c)
			}
			if c := n.OutputCondition(); c != nil {
				fmt.Fprintf(w, "    output: %s\n", c)
			}
		}
		fmt.Fprintln(w)
	}

	if len(edges) > 0 {
		fmt.Fprintln(w, "Edges:")
		for _, e := range edges {
			fmt.Fprintf(w, "  %s: %s → %s when %s\n",
				e.Name(), e.From().Name(), e.To().Name(), e.Condition())
		}
		fmt.Fprintln(w)
	}

	if len(result.Warnings)+len(result.Shadowed) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  ⚠ %s\n", warning.Message)
		}
		for _, warning := range result.Shadowed {
			fmt.Fprintf(w, "  ⚠ %s\n", warning.Message)
		}
		fmt.Fprintln(w)
	}

	if outputFile != "" {
		fmt.Fprintf(w, "Wrote canonical graph to %s\n", outputFile)
	}
}

// writeGraphToFile writes the graph description as canonical JSON, the
// same bytes the fingerprint is computed over.
func writeGraphToFile(description map[string]any, filename string) error {
	data, err := ir.MarshalCanonical(description)
	if err != nil {
		return fmt.Errorf("marshaling graph: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
