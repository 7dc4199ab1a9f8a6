package notes

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// Failure-path tests use sqlmock so a persistence outage can be injected
// without a real database.

func TestSQLiteStore_CreateStorageFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	boom := errors.New("disk I/O error")
	mock.ExpectExec("INSERT INTO notes").WillReturnError(boom)

	store := NewSQLiteStoreWithDB(db)
	_, err = store.Create(context.Background(), "alice", "t", "c")
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped disk error", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSQLiteStore_ListStorageFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	boom := errors.New("database is locked")
	mock.ExpectQuery("SELECT id, owner_id, title, content, created_at FROM notes").
		WillReturnError(boom)

	store := NewSQLiteStoreWithDB(db)
	_, err = store.ListByOwner(context.Background(), "alice")
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped lock error", err)
	}
}

func TestSQLiteStore_UpdateStorageFailureIsNotNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	boom := errors.New("disk I/O error")
	mock.ExpectExec("UPDATE notes SET content").WillReturnError(boom)

	store := NewSQLiteStoreWithDB(db)
	err = store.Update(context.Background(), 7, "alice", "c")
	if errors.Is(err, ErrNotFound) {
		t.Error("storage failure must not be reported as ErrNotFound")
	}
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped disk error", err)
	}
}

func TestSQLiteStore_UpdateZeroRowsIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE notes SET content").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewSQLiteStoreWithDB(db)
	if err := store.Update(context.Background(), 7, "alice", "c"); err != ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
