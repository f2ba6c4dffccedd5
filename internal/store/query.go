package store

import (
	"context"
	"fmt"
	"strings"
)

// Filter narrows an evaluation query. Zero-valued fields match everything;
// the set fields are ANDed together.
type Filter struct {
	RunID string
	Kind  string
	Edge  string

	// Node matches evaluations whose source or destination is this node.
	Node string

	// Result, when non-nil, matches the guard outcome.
	Result *bool

	// Failed matches only evaluations that recorded an error.
	Failed bool
}

// compile turns the filter into a WHERE clause and its positional args.
// Values are always bound as parameters, never interpolated.
func (f Filter) compile() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.RunID != "" {
		clauses = append(clauses, "run_id = ?")
		args = append(args, f.RunID)
	}
	if f.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, f.Kind)
	}
	if f.Edge != "" {
		clauses = append(clauses, "edge = ?")
		args = append(args, f.Edge)
	}
	if f.Node != "" {
		clauses = append(clauses, "(node_from = ? OR node_to = ?)")
		args = append(args, f.Node, f.Node)
	}
	if f.Result != nil {
		clauses = append(clauses, "result = ?")
		args = append(args, boolToInt(*f.Result))
	}
	if f.Failed {
		clauses = append(clauses, "error != ''")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// FindEvaluations returns the evaluations matching f, ordered by seq with
// run id as tiebreaker.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) FindEvaluations(ctx context.Context, f Filter) ([]Evaluation, error) {
	where, args := f.compile()
	query := `
		SELECT run_id, seq, kind, edge, node_from, node_to, guard, message, result, error
		FROM evaluations
		` + where + `
		ORDER BY seq ASC, run_id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	evals := []Evaluation{}
	for rows.Next() {
		var (
			ev     Evaluation
			result int
		)
		if err := rows.Scan(
			&ev.RunID, &ev.Seq, &ev.Kind, &ev.Edge, &ev.NodeFrom, &ev.NodeTo,
			&ev.Guard, &ev.Message, &result, &ev.Error,
		); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		ev.Result = result != 0
		evals = append(evals, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}
	return evals, nil
}
