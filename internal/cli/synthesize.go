package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fridex/nodenator/internal/dispatch"
	"github.com/fridex/nodenator/internal/expr"
	"github.com/fridex/nodenator/internal/graph"
	"github.com/fridex/nodenator/internal/ir"
	"github.com/fridex/nodenator/internal/render"
)

// SynthesizeOptions holds flags for the synthesize command.
type SynthesizeOptions struct {
	*RootOptions
	Nodes  []string
	Target string // overrides the configured target
}

// SynthesizedNode is the dispatch code of one node.
type SynthesizedNode struct {
	Node    string   `json:"node"`
	Target  string   `json:"target"`
	Imports string   `json:"imports,omitempty"`
	Code    string   `json:"code"`
	Used    []string `json:"used"`
}

// NewSynthesizeCommand creates the synthesize command.
func NewSynthesizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SynthesizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "synthesize <graph>",
		Short: "Print dispatch code for graph nodes",
		Long: `Synthesize the dispatch code of a node: one branch per incoming edge,
testing which node sent the message and then the edge guard. A branch
whose guard holds returns the edge name.

By default every node with incoming edges is synthesized, in graph
order. The target language defaults to the configured target.

Examples:
  nodenator synthesize ./plant.yaml
  nodenator synthesize ./plant.yaml --node Alarm --target javascript`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynthesize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Nodes, "node", nil, "node to synthesize (repeatable)")
	cmd.Flags().StringVar(&opts.Target, "target", "", "target language ("+strings.Join(render.Targets(), "|")+")")

	return cmd
}

func runSynthesize(opts *SynthesizeOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cfg := opts.config()

	target := opts.Target
	if target == "" {
		target = cfg.Target
	}
	renderer, err := render.For(target)
	if err != nil {
		return outputCommandError(formatter, ErrCodeSynthesis, err.Error())
	}

	loaded, err := loadGraph(formatter, path)
	if err != nil {
		return err
	}

	nodes, err := selectNodes(loaded.Graph, opts.Nodes)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, err.Error())
	}

	dopts := dispatch.Options{
		Sender:  cfg.SenderIdentifier,
		Message: cfg.MessageIdentifier,
		Body:    returnEdgeName,
	}

	results := make([]SynthesizedNode, 0, len(nodes))
	for _, n := range nodes {
		d, err := dispatch.Synthesize(n, dopts)
		if err != nil {
			return outputCommandError(formatter, ErrCodeSynthesis, err.Error())
		}
		code, err := renderer.Stmts(d.Stmts)
		if err != nil {
			return outputCommandError(formatter, ErrCodeSynthesis, fmt.Sprintf("render %s: %v", n.Name(), err))
		}
		used := dispatch.Used(n)
		if used == nil {
			used = []string{}
		}
		results = append(results, SynthesizedNode{
			Node:    n.Name(),
			Target:  target,
			Imports: renderer.Imports(d.Imports),
			Code:    code,
			Used:    used,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(results)
	}
	outputSynthesizeText(formatter, renderer, results)
	return nil
}

// selectNodes returns the named nodes, or every node with incoming
// edges when names is empty.
func selectNodes(g *graph.Graph, names []string) ([]*graph.Node, error) {
	if len(names) == 0 {
		var nodes []*graph.Node
		for _, n := range g.Nodes() {
			if len(n.InputEdges()) > 0 {
				nodes = append(nodes, n)
			}
		}
		return nodes, nil
	}

	nodes := make([]*graph.Node, 0, len(names))
	for _, name := range names {
		n, ok := g.NodeByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown node %q", name)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// returnEdgeName is the branch body: return the edge name, or pass for
// edges whose name is a run-local token.
func returnEdgeName(e *graph.Edge) []expr.Stmt {
	if e.NameGenerated() {
		return []expr.Stmt{expr.Pass{}}
	}
	return []expr.Stmt{expr.Return{Value: expr.Lit(ir.String(e.Name()))}}
}

func outputSynthesizeText(formatter *OutputFormatter, renderer render.Renderer, results []SynthesizedNode) {
	w := formatter.Writer
	comment := "#"
	if _, ok := renderer.(*render.JavaScript); ok {
		comment = "//"
	}

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s node: %s\n", comment, r.Node)
		if r.Code == "" {
			fmt.Fprintf(w, "%s no incoming edges\n", comment)
			continue
		}
		if r.Imports != "" {
			fmt.Fprint(w, r.Imports)
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, r.Code)
	}
}
