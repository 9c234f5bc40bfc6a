package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func TestBatchWriterTransactions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	ctx := context.Background()
	bw := NewBatchWriter(db, 2)
	var flushes []int
	bw.OnFlush = func(n int) { flushes = append(flushes, n) }

	for _, v := range []string{"A", "B", "C"} {
		v := v
		err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.Exec("INSERT INTO test (val) VALUES (?)", v)
			return err
		})
		if err != nil {
			t.Fatalf("submit %s: %v", v, err)
		}
	}

	// First batch (A, B) is committed on submit; C waits for Close.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM test").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows before close, got %d", count)
	}

	if err := bw.Close(ctx); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM test").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rows, got %d", count)
	}
	if len(flushes) != 2 || flushes[0] != 2 || flushes[1] != 3 {
		t.Fatalf("unexpected flush progress %v", flushes)
	}
	if bw.Written() != 3 {
		t.Fatalf("expected 3 writes, got %d", bw.Written())
	}
}

func TestBatchWriterRollback(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	if _, err := db.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY, val TEXT UNIQUE)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	ctx := context.Background()
	bw := NewBatchWriter(db, 10)
	for _, v := range []string{"A", "A"} {
		v := v
		if err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.Exec("INSERT INTO test (val) VALUES (?)", v)
			return err
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if err := bw.Close(ctx); err == nil {
		t.Fatal("expected constraint error on close")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM test").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback to leave 0 rows, got %d", count)
	}
}

func TestBatchWriterSubmitAfterClose(t *testing.T) {
	bw := NewBatchWriter(nil, 1)
	ctx := context.Background()
	ran := 0
	if err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
		ran++
		return nil
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ran != 1 {
		t.Fatalf("expected write to run without a db, ran %d", ran)
	}
	if err := bw.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error { return nil })
	if !errors.Is(err, ErrBatchWriterClosed) {
		t.Fatalf("expected ErrBatchWriterClosed, got %v", err)
	}
}
