package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fridex/nodenator/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string

	Kind   string
	Edge   string
	Node   string
	Result string
	Failed bool
}

// RunSummary describes one recorded run.
type RunSummary struct {
	ID           string `json:"id"`
	GraphHash    string `json:"graph_hash"`
	StartedAtSeq int64  `json:"started_at_seq"`
	Source       string `json:"source"`
}

// EvaluationRecord is one logged guard evaluation.
type EvaluationRecord struct {
	RunID    string `json:"run_id,omitempty"`
	Seq      int64  `json:"seq"`
	Kind     string `json:"kind"`
	Edge     string `json:"edge,omitempty"`
	NodeFrom string `json:"node_from"`
	NodeTo   string `json:"node_to,omitempty"`
	Guard    string `json:"guard"`
	Result   bool   `json:"result"`
	Error    string `json:"error,omitempty"`
}

// RunHistory is the JSON payload of history --run.
type RunHistory struct {
	Run         RunSummary         `json:"run"`
	Evaluations []EvaluationRecord `json:"evaluations"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query the evaluation log",
		Long: `List the runs recorded in an evaluation log, or every guard evaluation
of one run in seq order.

Filter flags narrow the evaluations shown. With --run they apply to that
run; without it they search every run in the log.

Examples:
  nodenator history --db ./nodenator.db
  nodenator history --db ./nodenator.db --run 0191e0c2-...
  nodenator history --db ./nodenator.db --run 0191e0c2-... --format json
  nodenator history --db ./nodenator.db --edge hot --result false
  nodenator history --db ./nodenator.db --failed`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite evaluation log")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run to show evaluations for")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only evaluations of this kind (output_condition, edge, input_condition)")
	cmd.Flags().StringVar(&opts.Edge, "edge", "", "only evaluations of this edge")
	cmd.Flags().StringVar(&opts.Node, "node", "", "only evaluations touching this node")
	cmd.Flags().StringVar(&opts.Result, "result", "", "only evaluations with this result (true or false)")
	cmd.Flags().BoolVar(&opts.Failed, "failed", false, "only evaluations that recorded an error")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	filter, err := opts.filter()
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}

	database := opts.Database
	if database == "" {
		database = opts.config().Database
	}
	if database == "" {
		return outputCommandError(formatter, ErrCodeDatabase, "no database given: use --db or set database in the configuration")
	}
	// Opening creates missing files; a history query never should.
	if _, err := os.Stat(database); err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("database not found: %s", database))
	}

	st, err := store.Open(database)
	if err != nil {
		return outputCommandError(formatter, ErrCodeDatabase, fmt.Sprintf("failed to open database: %v", err))
	}
	defer st.Close()

	switch {
	case opts.RunID != "":
		filter.RunID = opts.RunID
		return showRun(ctx, formatter, st, filter)
	case filter != (store.Filter{}):
		return listEvaluations(ctx, formatter, st, filter)
	default:
		return listRuns(ctx, formatter, st)
	}
}

// filter builds the store filter from the flag values.
func (o *HistoryOptions) filter() (store.Filter, error) {
	f := store.Filter{Kind: o.Kind, Edge: o.Edge, Node: o.Node, Failed: o.Failed}

	switch o.Kind {
	case "", store.KindOutputCondition, store.KindEdge, store.KindInputCondition:
	default:
		return store.Filter{}, fmt.Errorf("invalid kind %q: must be one of %s, %s, %s",
			o.Kind, store.KindOutputCondition, store.KindEdge, store.KindInputCondition)
	}

	if o.Result != "" {
		result, err := strconv.ParseBool(o.Result)
		if err != nil {
			return store.Filter{}, fmt.Errorf("invalid result %q: must be true or false", o.Result)
		}
		f.Result = &result
	}
	return f, nil
}

func listRuns(ctx context.Context, formatter *OutputFormatter, st *store.Store) error {
	runs, err := st.Runs(ctx)
	if err != nil {
		return outputCommandError(formatter, ErrCodeDatabase, err.Error())
	}

	summaries := make([]RunSummary, len(runs))
	for i, r := range runs {
		summaries[i] = runSummary(r)
	}

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}

	w := formatter.Writer
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	fmt.Fprintf(w, "Runs (%d):\n", len(summaries))
	for _, r := range summaries {
		fmt.Fprintf(w, "  %s  seq>%d  graph=%s  source=%s\n", r.ID, r.StartedAtSeq, shortHash(r.GraphHash), r.Source)
	}
	return nil
}

func showRun(ctx context.Context, formatter *OutputFormatter, st *store.Store, filter store.Filter) error {
	run, err := st.Run(ctx, filter.RunID)
	if errors.Is(err, sql.ErrNoRows) {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("run not found: %s", filter.RunID))
	}
	if err != nil {
		return outputCommandError(formatter, ErrCodeDatabase, err.Error())
	}

	evals, err := st.FindEvaluations(ctx, filter)
	if err != nil {
		return outputCommandError(formatter, ErrCodeDatabase, err.Error())
	}

	history := RunHistory{
		Run:         runSummary(run),
		Evaluations: make([]EvaluationRecord, len(evals)),
	}
	for i, ev := range evals {
		history.Evaluations[i] = evaluationRecord(ev)
	}

	if formatter.Format == "json" {
		return formatter.Success(history)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s (graph=%s, source=%s)\n\n", run.ID, shortHash(run.GraphHash), run.Source)
	if len(history.Evaluations) == 0 {
		fmt.Fprintln(w, "No evaluations recorded.")
		return nil
	}
	for _, ev := range history.Evaluations {
		writeEvaluation(w, ev)
	}
	return nil
}

// listEvaluations prints the evaluations matching filter across every run.
func listEvaluations(ctx context.Context, formatter *OutputFormatter, st *store.Store, filter store.Filter) error {
	evals, err := st.FindEvaluations(ctx, filter)
	if err != nil {
		return outputCommandError(formatter, ErrCodeDatabase, err.Error())
	}

	records := make([]EvaluationRecord, len(evals))
	for i, ev := range evals {
		records[i] = evaluationRecord(ev)
		records[i].RunID = ev.RunID
	}

	if formatter.Format == "json" {
		return formatter.Success(records)
	}

	w := formatter.Writer
	if len(records) == 0 {
		fmt.Fprintln(w, "No matching evaluations.")
		return nil
	}
	fmt.Fprintf(w, "Evaluations (%d):\n", len(records))
	for _, ev := range records {
		writeEvaluation(w, ev)
	}
	return nil
}

func evaluationRecord(ev store.Evaluation) EvaluationRecord {
	return EvaluationRecord{
		Seq:      ev.Seq,
		Kind:     ev.Kind,
		Edge:     ev.Edge,
		NodeFrom: ev.NodeFrom,
		NodeTo:   ev.NodeTo,
		Guard:    ev.Guard,
		Result:   ev.Result,
		Error:    ev.Error,
	}
}

func writeEvaluation(w io.Writer, ev EvaluationRecord) {
	target := ev.NodeFrom
	if ev.NodeTo != "" {
		target = fmt.Sprintf("%s → %s", ev.NodeFrom, ev.NodeTo)
	}
	label := ev.Kind
	if ev.Edge != "" {
		label = fmt.Sprintf("%s %s", ev.Kind, ev.Edge)
	}
	run := ""
	if ev.RunID != "" {
		run = " run=" + ev.RunID
	}
	fmt.Fprintf(w, "  [%d]%s %s (%s) %s = %t\n", ev.Seq, run, label, target, ev.Guard, ev.Result)
	if ev.Error != "" {
		fmt.Fprintf(w, "      error: %s\n", ev.Error)
	}
}

func runSummary(r store.Run) RunSummary {
	return RunSummary{ID: r.ID, GraphHash: r.GraphHash, StartedAtSeq: r.StartedAtSeq, Source: r.Source}
}

// shortHash abbreviates a fingerprint for text output.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
