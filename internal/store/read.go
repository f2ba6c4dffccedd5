package store

import (
	"context"
	"database/sql"
	"fmt"
)

// LastSeq returns the highest evaluation seq in the store, or 0 when the
// log is empty.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM evaluations`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("query last seq: %w", err)
	}
	return seq, nil
}

// Runs returns every run ordered by start position, then id.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, graph_hash, started_at_seq, source
		FROM runs
		ORDER BY started_at_seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.GraphHash, &r.StartedAtSeq, &r.Source); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Run retrieves a single run by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, graph_hash, started_at_seq, source
		FROM runs
		WHERE id = ?
	`, id).Scan(&r.ID, &r.GraphHash, &r.StartedAtSeq, &r.Source)
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("query run: %w", err)
	}
	return r, nil
}

// Evaluations returns every evaluation recorded for a run in seq order.
//
// Returns an empty slice (not nil) if the run has no evaluations.
func (s *Store) Evaluations(ctx context.Context, runID string) ([]Evaluation, error) {
	return s.FindEvaluations(ctx, Filter{RunID: runID})
}
