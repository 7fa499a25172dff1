package repository

import (
	"context"
	"testing"
	"time"

	"github.com/mr1hm/water-insights/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func newRecord(id, country string, createdAt time.Time) *models.PredictionRecord {
	return &models.PredictionRecord{
		ID:            id,
		Country:       country,
		BaselineYear:  2021,
		TargetYear:    2023,
		BaselineValue: 110,
		Predicted:     models.Predictions{Lasso: 120, KNN: 118, Ridge: 121},
		Growth:        &models.GrowthRates{Lasso: 9.09, KNN: 7.27, Ridge: 10},
		CreatedAt:     createdAt,
	}
}

func TestSQLiteDB_AddAndGet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	if err := db.Add(ctx, newRecord("rec_1", "Testland", now)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := db.GetByID(ctx, "rec_1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.Country != "Testland" || got.TargetYear != 2023 {
		t.Errorf("unexpected record %+v", got)
	}
	if got.Predicted.Ridge != 121 {
		t.Errorf("expected ridge 121, got %v", got.Predicted.Ridge)
	}
	if got.Growth == nil || got.Growth.Lasso != 9.09 {
		t.Errorf("expected growth round-trip, got %+v", got.Growth)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, got.CreatedAt)
	}
}

func TestSQLiteDB_UndefinedGrowth(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	r := newRecord("rec_zero", "Dryland", time.Now())
	r.BaselineValue = 0
	r.Growth = nil

	if err := db.Add(ctx, r); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	got, err := db.GetByID(ctx, "rec_zero")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Growth != nil {
		t.Errorf("expected nil growth, got %+v", got.Growth)
	}
}

func TestSQLiteDB_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	got, err := db.GetByID(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestSQLiteDB_List(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	base := time.Now()
	records := []*models.PredictionRecord{
		newRecord("a", "Testland", base.Add(-3*time.Hour)),
		newRecord("b", "Aland", base.Add(-2*time.Hour)),
		newRecord("c", "Testland", base.Add(-1*time.Hour)),
	}
	for _, r := range records {
		if err := db.Add(ctx, r); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	all, err := db.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Errorf("expected newest first, got %v", ids(all))
	}

	testland, err := db.List(ctx, Filter{Country: "Testland"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(testland) != 2 {
		t.Errorf("expected 2 Testland records, got %d", len(testland))
	}

	page, err := db.List(ctx, Filter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page) != 1 || page[0].ID != "b" {
		t.Errorf("expected page [b], got %v", ids(page))
	}
}

func TestSQLiteDB_Delete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	db.Add(ctx, newRecord("a", "Testland", time.Now()))
	db.Add(ctx, newRecord("b", "Testland", time.Now()))

	deleted, err := db.Delete(ctx, "a")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Error("expected record deleted")
	}

	deleted, err = db.Delete(ctx, "a")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted {
		t.Error("expected second delete to report false")
	}

	n, err := db.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row cleared, got %d", n)
	}
}

func TestSQLiteDB_DuplicateAdd(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	r := newRecord("dup", "Testland", time.Now())

	if err := db.Add(ctx, r); err != nil {
		t.Fatalf("First Add failed: %v", err)
	}
	if err := db.Add(ctx, r); err == nil {
		t.Error("expected error for duplicate ID, got nil")
	}
}

func ids(records []models.PredictionRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
