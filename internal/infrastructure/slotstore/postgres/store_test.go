package postgres

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestLoadFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT payload FROM document_slots WHERE key = \$1`).
		WithArgs("bidsmart_projects").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`[{"id":"1"}]`)))

	store := NewSlotStore(db)
	payload, found, err := store.Load(context.Background(), "bidsmart_projects")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !found {
		t.Fatal("expected found")
	}
	if string(payload) != `[{"id":"1"}]` {
		t.Fatalf("unexpected payload %s", payload)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAbsentIsNotAnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT payload FROM document_slots WHERE key = \$1`).
		WithArgs("bidsmart_cases").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	store := NewSlotStore(db)
	payload, found, err := store.Load(context.Background(), "bidsmart_cases")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if found || payload != nil {
		t.Fatalf("absent slot must report (nil, false), got (%s, %v)", payload, found)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO document_slots`).
		WithArgs("bidsmart_tenders", []byte(`[]`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewSlotStore(db)
	if err := store.Save(context.Background(), "bidsmart_tenders", []byte(`[]`)); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
