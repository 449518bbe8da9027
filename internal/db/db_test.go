package db

import (
	"database/sql"
	"testing"

	"launchfast/internal/engine"
	"launchfast/internal/scoring"

	_ "modernc.org/sqlite"
)

// openTestDB opens an in-memory SQLite DB and runs migrations (for testing only).
func openTestDB(t *testing.T) *DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func f(v float64) *float64 { return &v }

func testProduct(asin string) *engine.Product {
	return &engine.Product{
		ASIN:     asin,
		Title:    "Steel Dog Crate",
		Category: "Pet Supplies",
		Price:    42,
		Reviews:  18,
		SalesData: &engine.SalesData{
			MonthlyRevenue: f(6300),
			MonthlySales:   f(150),
			Margin:         f(0.32),
		},
		Keywords: []engine.Keyword{{Phrase: "dog crate", CPC: 0.85, SearchVolume: 12000}},
	}
}

func TestDB_ProductRoundTrip(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	p := testProduct("B00TEST001")
	if err := d.SaveProduct(p); err != nil {
		t.Fatalf("SaveProduct: %v", err)
	}

	got, err := d.GetProduct("B00TEST001")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got == nil {
		t.Fatal("GetProduct returned nil for saved product")
	}
	if got.SalesData == nil || got.SalesData.MonthlyRevenue == nil || *got.SalesData.MonthlyRevenue != 6300 {
		t.Errorf("sales data did not survive round-trip: %+v", got.SalesData)
	}
	if len(got.Keywords) != 1 || got.Keywords[0].CPC != 0.85 {
		t.Errorf("keywords did not survive round-trip: %+v", got.Keywords)
	}

	// Upsert overwrites.
	p.Price = 45
	if err := d.SaveProduct(p); err != nil {
		t.Fatalf("SaveProduct (update): %v", err)
	}
	got, _ = d.GetProduct("B00TEST001")
	if got.Price != 45 {
		t.Errorf("price = %v after upsert, want 45", got.Price)
	}
	if n := len(d.ListProducts(10)); n != 1 {
		t.Errorf("ListProducts len = %d, want 1 (upsert, not insert)", n)
	}
}

func TestDB_SaveProductRequiresASIN(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()
	if err := d.SaveProduct(&engine.Product{Title: "no asin"}); err == nil {
		t.Error("expected error for missing ASIN")
	}
}

func TestDB_GetProductMissing(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()
	got, err := d.GetProduct("B0MISSING0")
	if err != nil || got != nil {
		t.Errorf("GetProduct(missing) = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestDB_ScoreHistoryRoundTrip(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	ctx := engine.NewContext(engine.ContextInitial, "user-1", "")
	e := engine.New(ctx)
	res, _ := e.Grade(testProduct("B00TEST002"))

	id, err := d.SaveScore("B00TEST002", res, ctx)
	if err != nil {
		t.Fatalf("SaveScore: %v", err)
	}
	if id <= 0 {
		t.Fatal("SaveScore returned id 0")
	}

	history := d.ScoreHistory("B00TEST002", 5)
	if len(history) != 1 {
		t.Fatalf("ScoreHistory len = %d, want 1", len(history))
	}
	rec := history[0]
	if rec.Grade != res.Grade || rec.Score != res.Score {
		t.Errorf("stored %s/%v, want %s/%v", rec.Grade, rec.Score, res.Grade, res.Score)
	}
	if rec.ContextID != ctx.ID || rec.ContextType != string(engine.ContextInitial) {
		t.Errorf("context not persisted: %+v", rec)
	}
	if len(rec.Breakdown.Details) == 0 {
		t.Error("breakdown details lost in round-trip")
	}
}

func TestDB_MarketRunRoundTrip(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	e := engine.New(engine.NewContext(engine.ContextRecalculation, "user-2", "refresh"))
	res := e.MarketMetrics([]*engine.Product{testProduct("B00TEST003"), testProduct("B00TEST004")})

	id, err := d.SaveMarketRun(res)
	if err != nil {
		t.Fatalf("SaveMarketRun: %v", err)
	}
	if id <= 0 {
		t.Fatal("SaveMarketRun returned id 0")
	}

	runs := d.ListMarketRuns(5)
	if len(runs) != 1 {
		t.Fatalf("ListMarketRuns len = %d, want 1", len(runs))
	}
	run := runs[0]
	if run.MarketGrade != res.Value.MarketGrade {
		t.Errorf("grade = %s, want %s", run.MarketGrade, res.Value.MarketGrade)
	}
	if run.TotalProducts != 2 || run.ValidProducts != 2 {
		t.Errorf("counts = %d/%d, want 2/2", run.TotalProducts, run.ValidProducts)
	}
	if run.Result.Value.MarketRisk != scoring.RiskSafe {
		t.Errorf("round-tripped market risk = %s, want Safe", run.Result.Value.MarketRisk)
	}
}
