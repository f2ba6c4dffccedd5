package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/fridex/nodenator/internal/engine"
	"github.com/fridex/nodenator/internal/store"
)

// EvaluateOptions holds flags for the evaluate command.
type EvaluateOptions struct {
	*RootOptions
	MessageFile string
	Database    string
	Metrics     bool
}

// TransitionResult is one transition in evaluate output.
type TransitionResult struct {
	Edge string `json:"edge"`
	From string `json:"node_from"`
	To   string `json:"node_to"`
}

// MessageResult is the routing outcome of one message.
type MessageResult struct {
	From        string             `json:"node_from"`
	Transitions []TransitionResult `json:"transitions"`
}

// EvaluateResult is the JSON payload of a successful evaluate.
type EvaluateResult struct {
	RunID    string          `json:"run_id,omitempty"`
	Messages []MessageResult `json:"messages"`
}

// NewEvaluateCommand creates the evaluate command.
func NewEvaluateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvaluateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "evaluate <graph>",
		Short: "Route messages through a graph",
		Long: `Route raw messages through a graph and print the transitions each
message takes.

A message file holds one raw message, or a list of them:

  node_from: Sensor
  node_to: Alarm      # optional
  message: {temp: 120, level: high}

Every guard evaluation is written to the evaluation log when --db is
given (or the configuration names a database). A guard error aborts
routing with exit code 1.

Examples:
  nodenator evaluate ./plant.yaml --message reading.yaml
  nodenator evaluate ./plant.yaml --message reading.yaml --db ./nodenator.db
  cat reading.yaml | nodenator evaluate ./plant.yaml --message -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.MessageFile, "message", "m", "", "message file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("message")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite evaluation log")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print routing counters to stderr")

	return cmd
}

func runEvaluate(opts *EvaluateOptions, path string, cmd *cobra.Command) error {
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

	registry := prometheus.NewRegistry()
	routerOpts := []engine.Option{engine.WithMetrics(engine.NewMetrics(registry))}

	result := EvaluateResult{Messages: make([]MessageResult, 0, len(msgs))}

	database := opts.Database
	if database == "" {
		database = opts.config().Database
	}
	if database != "" {
		st, err := store.Open(database)
		if err != nil {
			return outputCommandError(formatter, ErrCodeDatabase, fmt.Sprintf("failed to open database: %v", err))
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()

		runID, last, err := beginRun(ctx, st, loaded, opts.MessageFile)
		if err != nil {
			return outputCommandError(formatter, ErrCodeDatabase, err.Error())
		}
		result.RunID = runID
		routerOpts = append(routerOpts,
			engine.WithRecorder(st, runID),
			engine.WithClock(engine.NewClockAt(last)),
		)
		formatter.VerboseLog("Recording run %s in %s", runID, database)
	}

	router := engine.NewRouter(routerOpts...)
	for i, msg := range msgs {
		transitions, err := router.Route(ctx, msg)
		if err != nil {
			if opts.Metrics {
				writeMetrics(formatter, registry)
			}
			_ = formatter.Error(ErrCodeRouting, fmt.Sprintf("messages[%d]: %v", i, err), nil)
			return WrapExitError(ExitFailure, fmt.Sprintf("routing messages[%d] failed", i), err)
		}

		mr := MessageResult{From: msg.From.Name(), Transitions: make([]TransitionResult, len(transitions))}
		for j, t := range transitions {
			mr.Transitions[j] = TransitionResult{Edge: t.Edge.Name(), From: msg.From.Name(), To: t.To.Name()}
		}
		result.Messages = append(result.Messages, mr)
	}

	if opts.Metrics {
		writeMetrics(formatter, registry)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	outputEvaluateText(formatter, result)
	return nil
}

// beginRun opens a run in the evaluation log and returns its id with
// the seq the run's clock starts after.
func beginRun(ctx context.Context, st *store.Store, loaded *loadedGraph, source string) (string, int64, error) {
	hash, err := loaded.Graph.Fingerprint()
	if err != nil {
		return "", 0, fmt.Errorf("fingerprint graph: %w", err)
	}
	last, err := st.LastSeq(ctx)
	if err != nil {
		return "", 0, err
	}
	runID, err := st.BeginRun(ctx, hash, source)
	if err != nil {
		return "", 0, err
	}
	return runID, last, nil
}

func outputEvaluateText(formatter *OutputFormatter, result EvaluateResult) {
	w := formatter.Writer
	for i, mr := range result.Messages {
		if len(mr.Transitions) == 0 {
			fmt.Fprintf(w, "messages[%d] from %s: no transitions\n", i, mr.From)
			continue
		}
		fmt.Fprintf(w, "messages[%d] from %s:\n", i, mr.From)
		for _, t := range mr.Transitions {
			fmt.Fprintf(w, "  %s → %s via %s\n", t.From, t.To, t.Edge)
		}
	}
	if result.RunID != "" {
		fmt.Fprintf(w, "\nRecorded as run %s\n", result.RunID)
	}
}

// writeMetrics prints every counter in registry to the diagnostic
// writer in the Prometheus text exposition format.
func writeMetrics(formatter *OutputFormatter, registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		slog.Warn("failed to gather metrics", "error", err)
		return
	}

	enc := expfmt.NewEncoder(formatter.GetErrWriter(), expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			slog.Warn("failed to encode metrics", "family", mf.GetName(), "error", err)
			return
		}
	}
	if closer, ok := enc.(expfmt.Closer); ok {
		if err := closer.Close(); err != nil {
			slog.Warn("failed to flush metrics", "error", err)
		}
	}
}
