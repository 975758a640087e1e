package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/thnplay/thnplay/internal/thn"
)

// RunRecord summarizes one playback of a cutscene.
type RunRecord struct {
	Script      string
	Checksum    string
	Duration    float64
	Clock       float64
	Events      int
	Completed   bool
	WallTime    time.Duration
	Diagnostics []thn.Diagnostic
}

// RunRow is a stored playback summary.
type RunRow struct {
	ID        int64
	Script    string
	Checksum  string
	Clock     float64
	Events    int
	Skipped   int
	Completed bool
	StartedAt time.Time
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Record stores a run and its diagnostics in a single transaction and
// returns the run id.
func (r *RunRepo) Record(ctx context.Context, rec RunRecord) (int64, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("run begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO cutscene_runs (script, checksum, duration, clock, events, skipped, completed, wall_time_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		rec.Script, rec.Checksum, rec.Duration, rec.Clock, rec.Events,
		len(rec.Diagnostics), rec.Completed, rec.WallTime.Milliseconds(),
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("run insert: %w", err)
	}

	if len(rec.Diagnostics) > 0 {
		batch := &pgx.Batch{}
		for _, d := range rec.Diagnostics {
			batch.Queue(
				`INSERT INTO run_diagnostics (run_id, event_time, clock, event_type, targets, message)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				id, d.Time, d.Clock, d.Type, targetsOf(d), d.Err.Error(),
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, fmt.Errorf("diagnostics insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("run commit: %w", err)
	}
	return id, nil
}

// Latest returns the most recent run of script, or nil if none exists.
func (r *RunRepo) Latest(ctx context.Context, script string) (*RunRow, error) {
	row := &RunRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, script, checksum, clock, events, skipped, completed, started_at
		 FROM cutscene_runs WHERE script = $1
		 ORDER BY started_at DESC, id DESC LIMIT 1`, script,
	).Scan(
		&row.ID, &row.Script, &row.Checksum, &row.Clock,
		&row.Events, &row.Skipped, &row.Completed, &row.StartedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func targetsOf(d thn.Diagnostic) []string {
	if d.Targets == nil {
		return []string{}
	}
	return d.Targets
}
