package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeQueryable struct{}

func (fakeQueryable) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, nil
}
func (fakeQueryable) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return nil
}
func (fakeQueryable) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func TestConnFromContext_Empty(t *testing.T) {
	if q := ConnFromContext(context.Background()); q != nil {
		t.Errorf("expected nil conn from empty context, got %v", q)
	}
}

func TestWithConn_RoundTrip(t *testing.T) {
	q := fakeQueryable{}
	ctx := WithConn(context.Background(), q)

	got := ConnFromContext(ctx)
	if got == nil {
		t.Fatal("expected conn from context, got nil")
	}
	if _, ok := got.(fakeQueryable); !ok {
		t.Errorf("expected fakeQueryable, got %T", got)
	}
}
