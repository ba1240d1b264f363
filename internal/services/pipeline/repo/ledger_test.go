package repo

import (
	"context"
	"errors"
	"testing"

	"dvf/internal/modkit/repokit"
	perr "dvf/internal/platform/errors"
	kit "dvf/internal/platform/testkit"
	"dvf/internal/services/pipeline/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

type tag struct{ n int64 }

func (t tag) String() string      { return "UPDATE" }
func (t tag) RowsAffected() int64 { return t.n }

// recQ records every Exec and answers with a fixed tag or error
type recQ struct {
	sqls [][]any
	last string
	n    int64
	err  error
}

func (r *recQ) Exec(_ context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	r.last = sql
	r.sqls = append(r.sqls, args)
	if r.err != nil {
		return nil, r.err
	}
	return tag{n: r.n}, nil
}

func (r *recQ) Query(context.Context, string, ...any) (repokit.Rows, error) { return nil, nil }
func (r *recQ) QueryRow(context.Context, string, ...any) repokit.Row        { return nil }

func TestLedger_StartVintage(t *testing.T) {
	t.Parallel()

	q := &recQ{n: 1}
	if err := NewPG().Bind(q).StartVintage(context.Background(), "run-1", "2018"); err != nil {
		t.Fatalf("start: %v", err)
	}
	kit.MustContain(t, q.last, "ON CONFLICT (run_id, vintage)")
	args := q.sqls[0]
	if args[0] != "run-1" || args[1] != "2018" || args[2] != domain.StatusRunning {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestLedger_FinishVintage(t *testing.T) {
	t.Parallel()

	fin := domain.VintageFinish{
		Status: domain.StatusError, RowsRead: 10, RowsLocated: 7, Communes: 3, Departements: 2,
		FilesWritten: 6, ErrText: "boom",
	}

	cases := []struct {
		name string
		q    *recQ
		want func(error) bool
	}{
		{name: "updated", q: &recQ{n: 1}},
		{name: "never started", q: &recQ{n: 0}, want: func(err error) bool { return perr.IsCode(err, perr.ErrorCodeNotFound) }},
		{name: "pg error", q: &recQ{err: &pgconn.PgError{Code: "42P01", Message: "relation missing"}}, want: perr.IsUndefinedTable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewPG().Bind(tc.q).FinishVintage(context.Background(), "run-1", "2018", fin)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				args := tc.q.sqls[0]
				if args[2] != domain.StatusError || args[3] != 10 || args[4] != 7 || args[14] != "boom" {
					t.Fatalf("unexpected args %v", args)
				}
				return
			}
			if !tc.want(err) {
				t.Fatalf("unexpected error %v (code %v)", err, perr.CodeOf(err))
			}
		})
	}
}

func TestEnsureSchema(t *testing.T) {
	t.Parallel()

	q := &recQ{}
	if err := EnsureSchema(context.Background(), q); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	kit.MustContain(t, q.last, "CREATE TABLE IF NOT EXISTS dvf_vintages")

	q = &recQ{err: errors.New("down")}
	if err := EnsureSchema(context.Background(), q); err == nil {
		t.Fatal("expected an error")
	}
}
