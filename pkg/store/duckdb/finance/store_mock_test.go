package finance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/ngo-atlas/pkg/models/store"
)

func TestFinanceStore_GetRecords_QueryShape(t *testing.T) {
	// Given: a sqlmock DB with two financial record rows
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	cols := []string{"org_id", "year", "turnover", "surplus_deficit", "income_breakdown"}
	rows := sqlmock.NewRows(cols).
		AddRow("org-a", 2021, 100.0, 5.0, `{"donations":100}`).
		AddRow("org-a", 2022, 120.0, -3.0, nil)

	mock.ExpectQuery("SELECT org_id, year, turnover, surplus_deficit, income_breakdown").
		WillReturnRows(rows)

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	// When
	records, err := s.GetRecords(context.Background())

	// Then
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].IncomeBreakdown["donations"] != 100 {
		t.Errorf("unexpected breakdown: %+v", records[0].IncomeBreakdown)
	}
	if records[1].IncomeBreakdown != nil {
		t.Errorf("expected nil breakdown for NULL column, got %+v", records[1].IncomeBreakdown)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFinanceStore_SaveRun_InsertFailureIsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO rank_runs").
		WillReturnError(fmt.Errorf("disk full"))

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	meta := store.RankRunMeta{ID: "run-1", GeneratedAt: time.Now()}
	err = s.SaveRun(context.Background(), meta, nil)
	if err == nil {
		t.Fatal("expected an error for failed insert")
	}
}

func TestNewStore_NilDB(t *testing.T) {
	if _, err := NewStore(nil); err == nil {
		t.Fatal("expected an error for nil database connection")
	}
}
