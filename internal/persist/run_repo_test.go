package persist

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/thnplay/thnplay/internal/config"
	"github.com/thnplay/thnplay/internal/thn"
	"go.uber.org/zap"
)

// Set THNPLAY_TEST_DSN to a scratch Postgres database to run these.
func testDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("THNPLAY_TEST_DSN")
	if dsn == "" {
		t.Skip("THNPLAY_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxLifetime: time.Minute}, zap.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func TestRunRepoRecordAndLatest(t *testing.T) {
	db := testDB(t)
	repo := NewRunRepo(db)
	ctx := context.Background()
	script := "test_" + time.Now().Format("150405.000000")

	if row, err := repo.Latest(ctx, script); err != nil || row != nil {
		t.Fatalf("Latest on empty = %v, %v", row, err)
	}
	id, err := repo.Record(ctx, RunRecord{
		Script:    script,
		Checksum:  "abc",
		Duration:  10,
		Clock:     11,
		Events:    7,
		Completed: true,
		WallTime:  25 * time.Millisecond,
		Diagnostics: []thn.Diagnostic{
			{Time: 1, Clock: 1, Type: "SET_CAMERA", Targets: []string{"Monitor", "Nope"}, Err: errors.New("unknown")},
			{Time: 2, Clock: 2, Type: "START_PSYS", Err: errors.New("wrong role")},
		},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	row, err := repo.Latest(ctx, script)
	if err != nil || row == nil {
		t.Fatalf("Latest = %v, %v", row, err)
	}
	if row.ID != id || row.Skipped != 2 || row.Events != 7 || !row.Completed {
		t.Fatalf("row = %+v", row)
	}
	var n int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM run_diagnostics WHERE run_id = $1`, id).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("stored %d diagnostics, want 2", n)
	}
}

func TestTargetsOfNeverNil(t *testing.T) {
	if got := targetsOf(thn.Diagnostic{}); got == nil || len(got) != 0 {
		t.Fatalf("targetsOf(empty) = %#v", got)
	}
}

func TestNewDBRequiresDSN(t *testing.T) {
	if _, err := NewDB(context.Background(), config.DatabaseConfig{}, nil); !errors.Is(err, ErrNoDSN) {
		t.Fatalf("err = %v, want ErrNoDSN", err)
	}
}
