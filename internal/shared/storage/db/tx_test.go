package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRunInTxCommits(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE applications").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = RunInTx(context.Background(), sqlDB, func(ctx context.Context) error {
		conn := Conn(ctx, sqlDB)
		_, execErr := conn.ExecContext(ctx, "UPDATE applications SET status = $1", "TEMP")
		return execErr
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = RunInTx(context.Background(), sqlDB, func(ctx context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRunInTxJoinsExistingTransaction(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	var calls int
	err = RunInTx(context.Background(), sqlDB, func(ctx context.Context) error {
		return RunInTx(ctx, sqlDB, func(ctx context.Context) error {
			calls++
			return nil
		})
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected inner fn to run once, got %d", calls)
	}
	// Only one Begin/Commit pair expected; a nested begin would fail here.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestConnFallsBackToDB(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	conn := Conn(context.Background(), sqlDB)
	if conn != DBTX(sqlDB) {
		t.Fatalf("expected fallback handle outside a transaction")
	}
}
