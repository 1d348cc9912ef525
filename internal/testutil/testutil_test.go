package testutil_test

import (
	"testing"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/summary"
	"ledger/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "records", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	a := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, a)
	b := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, b)

	testutil.CreateTestUser(t, a)

	var count int64
	b.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected second database to be empty, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("expected user ID to be generated")
	}

	rec := testutil.CreateTestRecord(t, db, user.ID, summary.KindExpense, testutil.RecordOpts{
		Amount: "12.34",
		Date:   testutil.MustDate(t, "2024-01-05"),
	})
	if rec.Category != "Food" {
		t.Errorf("expected default category Food, got %s", rec.Category)
	}

	var stored models.Record
	if err := db.First(&stored, "id = ?", rec.ID).Error; err != nil {
		t.Fatalf("failed to reload record: %v", err)
	}
	testutil.AssertDecimal(t, "12.34", stored.Amount)
	if stored.Kind != summary.KindExpense {
		t.Errorf("expected kind expense, got %s", stored.Kind)
	}
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, apperrors.Wrap(apperrors.ErrRecordNotFound, nil), "RECORD_NOT_FOUND")
}
