package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fridex/nodenator/internal/graph"
	"github.com/fridex/nodenator/internal/jsvm"
	"github.com/fridex/nodenator/internal/predicate"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	MessageFile string
}

// GuardCheck is the outcome of one guard against one message.
type GuardCheck struct {
	Guard    string `json:"guard"`
	Location string `json:"location"`
	Message  int    `json:"message"`
	Result   bool   `json:"result"`
}

// VerifyResult is the JSON payload of a successful verify.
type VerifyResult struct {
	Guards   int          `json:"guards"`
	Messages int          `json:"messages"`
	Checks   []GuardCheck `json:"checks"`
}

// locatedGuard is a guard with a human-readable location in the graph.
type locatedGuard struct {
	location  string
	predicate predicate.Predicate
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <graph>",
		Short: "Cross-check synthesized JavaScript against direct evaluation",
		Long: `Render every guard of a graph to JavaScript, run it in an embedded
VM against every message, and compare the result and the sequence of
leaf calls with direct evaluation.

Edge guards and node input/output conditions are checked. Any mismatch
or guard error exits with code 1.

Examples:
  nodenator verify ./plant.yaml --messages readings.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.MessageFile, "messages", "", "message file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("messages")

	return cmd
}

func runVerify(opts *VerifyOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	loaded, err := loadGraph(formatter, path)
	if err != nil {
		return err
	}

	msgs, err := resolveMessages(opts.MessageFile, cmd.InOrStdin(), loaded.Graph)
	if err != nil {
		return outputCommandError(formatter, ErrCodeBadMessage, err.Error())
	}

	guards := graphGuards(loaded.Graph)
	vm := jsvm.New(loaded.Registry)
	result := VerifyResult{
		Guards:   len(guards),
		Messages: len(msgs),
		Checks:   make([]GuardCheck, 0, len(guards)*len(msgs)),
	}

	for _, g := range guards {
		for i, msg := range msgs {
			out, err := vm.Check(ctx, g.predicate, msg)
			if err != nil {
				code := ErrCodeRouting
				if jsvm.IsMismatch(err) {
					code = ErrCodeMismatch
				}
				message := fmt.Sprintf("%s against messages[%d]: %v", g.location, i, err)
				_ = formatter.Error(code, message, map[string]any{"guard": g.predicate.String()})
				return WrapExitError(ExitFailure, "verification failed", err)
			}
			formatter.VerboseLog("%s messages[%d]: %t", g.location, i, out.Result)
			result.Checks = append(result.Checks, GuardCheck{
				Guard:    g.predicate.String(),
				Location: g.location,
				Message:  i,
				Result:   out.Result,
			})
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ %d guard(s) agree on %d message(s)\n", result.Guards, result.Messages)
	return nil
}

// graphGuards lists node conditions in node order, then edge guards in
// edge order.
func graphGuards(g *graph.Graph) []locatedGuard {
	var guards []locatedGuard
	for _, n := range g.Nodes() {
		if p := n.InputCondition(); p != nil {
			guards = append(guards, locatedGuard{location: n.Name() + ".input_condition", predicate: p})
		}
		if p := n.OutputCondition(); p != nil {
			guards = append(guards, locatedGuard{location: n.Name() + ".output_condition", predicate: p})
		}
	}
	for _, e := range g.Edges() {
		guards = append(guards, locatedGuard{location: "edges[" + e.Name() + "]", predicate: e.Condition()})
	}
	return guards
}
