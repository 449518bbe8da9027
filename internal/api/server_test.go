package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"launchfast/internal/cache"
	"launchfast/internal/config"
	"launchfast/internal/db"
	"launchfast/internal/engine"
)

func f(v float64) *float64 { return &v }

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	s := NewServer(config.Default(), database, cache.NewMemory(time.Minute), "test")
	return s, s.Handler()
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func sampleProduct(asin string) map[string]any {
	return map[string]any{
		"asin":    asin,
		"title":   "Collapsible Dog Crate",
		"price":   42.0,
		"reviews": 18,
		"salesData": map[string]any{
			"monthlyRevenue": 6300,
			"monthlySales":   150,
			"margin":         0.32,
		},
		"keywords": []map[string]any{{"phrase": "dog crate", "cpc": 0.85}},
	}
}

func TestStatus(t *testing.T) {
	_, h := newTestServer(t)
	w := get(h, "/api/status")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}
}

func TestScoreProduct(t *testing.T) {
	_, h := newTestServer(t)
	w := postJSON(t, h, "/api/products/score", map[string]any{
		"userId":      "user-1",
		"contextType": "initial",
		"product":     sampleProduct("B00API0001"),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp scoreProductResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Grade == "" || resp.ContextID == "" {
		t.Errorf("incomplete response: %+v", resp)
	}

	// Same product through the engine directly must agree (determinism
	// across the HTTP boundary).
	e := engine.New(engine.NewContext(engine.ContextInitial, "user-1", ""))
	direct, _ := e.Grade(&engine.Product{
		ASIN:    "B00API0001",
		Price:   42,
		Reviews: 18,
		SalesData: &engine.SalesData{
			MonthlyRevenue: f(6300), MonthlySales: f(150), Margin: f(0.32),
		},
		Keywords: []engine.Keyword{{Phrase: "dog crate", CPC: 0.85}},
	})
	if resp.Grade != direct.Grade || resp.Score != direct.Score {
		t.Errorf("api grade %s/%v != direct %s/%v", resp.Grade, resp.Score, direct.Grade, direct.Score)
	}

	// The run is persisted and visible through score history.
	hw := get(h, "/api/products/B00API0001/scores")
	if hw.Code != http.StatusOK {
		t.Fatalf("history status = %d", hw.Code)
	}
	var hist struct {
		Scores []db.ScoreRecord `json:"scores"`
	}
	if err := json.Unmarshal(hw.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(hist.Scores) != 1 || hist.Scores[0].Grade != resp.Grade {
		t.Errorf("history = %+v, want one record with grade %s", hist.Scores, resp.Grade)
	}
}

func TestScoreProduct_BadRequest(t *testing.T) {
	_, h := newTestServer(t)
	if w := postJSON(t, h, "/api/products/score", map[string]any{"userId": "u"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing product: status = %d, want 400", w.Code)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/products/score", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", w.Code)
	}
}

func TestScoreCandidates_RankedBestFirst(t *testing.T) {
	_, h := newTestServer(t)
	w := postJSON(t, h, "/api/products/candidates", map[string]any{
		"candidates": []map[string]any{
			{"title": "Cheap Gadget", "category": "Electronics", "price": 9, "reviews": 4000, "rating": 3.1},
			{"title": "Trunk Organizer", "category": "Automotive", "price": 52, "reviews": 11, "rating": 4.7},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Candidates []rankedCandidate `json:"candidates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Candidates) != 2 {
		t.Fatalf("len = %d, want 2", len(resp.Candidates))
	}
	if resp.Candidates[0].Candidate.Title != "Trunk Organizer" {
		t.Errorf("best candidate = %q, want Trunk Organizer first", resp.Candidates[0].Candidate.Title)
	}
	if resp.Candidates[0].Result.Score <= resp.Candidates[1].Result.Score {
		t.Error("candidates not sorted best first")
	}
}

func TestScoreMarket(t *testing.T) {
	_, h := newTestServer(t)
	body := map[string]any{
		"userId":      "user-2",
		"contextType": "recalculation",
		"products":    []map[string]any{sampleProduct("B00API0002"), sampleProduct("B00API0003")},
	}
	w := postJSON(t, h, "/api/markets/score", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res engine.Result[engine.Market]
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Value.ValidProducts != 2 {
		t.Errorf("validProducts = %d, want 2", res.Value.ValidProducts)
	}
	if res.Value.MarketGrade == "" {
		t.Error("missing market grade")
	}

	// Cached second call returns the identical result.
	w2 := postJSON(t, h, "/api/markets/score", body)
	var res2 engine.Result[engine.Market]
	if err := json.Unmarshal(w2.Body.Bytes(), &res2); err != nil {
		t.Fatalf("decode cached: %v", err)
	}
	if res2.Value.MarketGrade != res.Value.MarketGrade || res2.Metadata.Context.ID != res.Metadata.Context.ID {
		t.Error("second call did not serve the cached result")
	}

	// The run is persisted once (the cache hit skips a second insert).
	rw := get(h, "/api/markets/runs")
	var runs struct {
		Runs []db.MarketRunRecord `json:"runs"`
	}
	if err := json.Unmarshal(rw.Body.Bytes(), &runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs.Runs) != 1 {
		t.Errorf("market runs = %d, want 1", len(runs.Runs))
	}
}

func TestScoreMarket_EmptyProducts(t *testing.T) {
	_, h := newTestServer(t)
	w := postJSON(t, h, "/api/markets/score", map[string]any{"userId": "u", "contextType": "initial"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (degraded result, not an error)", w.Code)
	}
	var res engine.Result[engine.Market]
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Validation.IsValid {
		t.Error("empty market must be invalid")
	}
	if res.Value.MarketGrade != "F1" {
		t.Errorf("grade = %s, want F1", res.Value.MarketGrade)
	}
}

func TestListProducts(t *testing.T) {
	_, h := newTestServer(t)
	postJSON(t, h, "/api/products/score", map[string]any{
		"userId": "u", "contextType": "initial", "product": sampleProduct("B00API0004"),
	})
	w := get(h, "/api/products?limit=10")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Products []*engine.Product `json:"products"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].ASIN != "B00API0004" {
		t.Errorf("products = %+v, want the scored product", resp.Products)
	}
}
