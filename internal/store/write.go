package store

import (
	"context"
	"fmt"
)

// BeginRun starts a new run over the graph with the given fingerprint and
// returns its id. source names where the messages came from (a file path
// or "-").
//
// The run records the highest evaluation seq in the store at the time it
// starts; see LastSeq.
func (s *Store) BeginRun(ctx context.Context, graphHash, source string) (string, error) {
	last, err := s.LastSeq(ctx)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}

	id := s.runID.Generate()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, graph_hash, started_at_seq, source)
		VALUES (?, ?, ?, ?)
	`, id, graphHash, last, source)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// Record inserts an evaluation into the log.
// Uses ON CONFLICT DO NOTHING for idempotency - an evaluation with the same
// (run_id, seq) is silently ignored. The run must exist (foreign key).
func (s *Store) Record(ctx context.Context, ev Evaluation) error {
	if ev.RunID == "" {
		return fmt.Errorf("record evaluation: run id is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations
		(run_id, seq, kind, edge, node_from, node_to, guard, message, result, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		ev.RunID,
		ev.Seq,
		ev.Kind,
		ev.Edge,
		ev.NodeFrom,
		ev.NodeTo,
		ev.Guard,
		ev.Message,
		boolToInt(ev.Result),
		ev.Error,
	)
	if err != nil {
		return fmt.Errorf("record evaluation: %w", err)
	}
	return nil
}
