package db

import (
	"encoding/json"
	"fmt"
	"time"

	"launchfast/internal/engine"
	"launchfast/internal/logger"
	"launchfast/internal/scoring"
)

// ScoreRecord is one persisted grading run for a product.
type ScoreRecord struct {
	ID          int64             `json:"id"`
	ASIN        string            `json:"asin"`
	Grade       string            `json:"grade"`
	Score       float64           `json:"score"`
	Breakdown   scoring.Breakdown `json:"breakdown"`
	ContextID   string            `json:"contextId"`
	ContextType string            `json:"contextType"`
	UserID      string            `json:"userId"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// SaveScore records a grading result for audit/history.
func (d *DB) SaveScore(asin string, res scoring.Result, ctx engine.Context) (int64, error) {
	breakdown, err := json.Marshal(res.Breakdown)
	if err != nil {
		return 0, fmt.Errorf("save score: %w", err)
	}
	r, err := d.sql.Exec(`
		INSERT INTO scores (asin, grade, score, breakdown, context_id, context_type, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, asin, res.Grade, res.Score, string(breakdown), ctx.ID, string(ctx.Type), ctx.UserID)
	if err != nil {
		return 0, fmt.Errorf("save score for %s: %w", asin, err)
	}
	id, _ := r.LastInsertId()
	return id, nil
}

// ScoreHistory returns up to limit grading runs for an ASIN, newest first.
func (d *DB) ScoreHistory(asin string, limit int) []ScoreRecord {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.sql.Query(`
		SELECT id, asin, grade, score, breakdown, context_id, context_type, user_id, created_at
		FROM scores WHERE asin = ? ORDER BY created_at DESC, id DESC LIMIT ?
	`, asin, limit)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("score history: %v", err))
		return nil
	}
	defer rows.Close()

	var records []ScoreRecord
	for rows.Next() {
		var rec ScoreRecord
		var breakdown, created string
		if rows.Scan(&rec.ID, &rec.ASIN, &rec.Grade, &rec.Score, &breakdown,
			&rec.ContextID, &rec.ContextType, &rec.UserID, &created) != nil {
			continue
		}
		json.Unmarshal([]byte(breakdown), &rec.Breakdown)
		rec.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", created)
		records = append(records, rec)
	}
	return records
}

// MarketRunRecord is one persisted market aggregation.
type MarketRunRecord struct {
	ID            int64                        `json:"id"`
	MarketGrade   string                       `json:"marketGrade"`
	TotalProducts int                          `json:"totalProducts"`
	ValidProducts int                          `json:"validProducts"`
	IsValid       bool                         `json:"isValid"`
	Result        engine.Result[engine.Market] `json:"result"`
	CreatedAt     time.Time                    `json:"createdAt"`
}

// SaveMarketRun records a full market calculation result.
func (d *DB) SaveMarketRun(res engine.Result[engine.Market]) (int64, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("save market run: %w", err)
	}
	valid := 0
	if res.Validation.IsValid {
		valid = 1
	}
	ctx := res.Metadata.Context
	r, err := d.sql.Exec(`
		INSERT INTO market_runs (market_grade, total_products, valid_products, is_valid, result, context_id, context_type, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, res.Value.MarketGrade, res.Value.TotalProducts, res.Value.ValidProducts, valid,
		string(data), ctx.ID, string(ctx.Type), ctx.UserID)
	if err != nil {
		return 0, fmt.Errorf("save market run: %w", err)
	}
	id, _ := r.LastInsertId()
	return id, nil
}

// ListMarketRuns returns up to limit market runs, newest first.
func (d *DB) ListMarketRuns(limit int) []MarketRunRecord {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.sql.Query(`
		SELECT id, market_grade, total_products, valid_products, is_valid, result, created_at
		FROM market_runs ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("list market runs: %v", err))
		return nil
	}
	defer rows.Close()

	var records []MarketRunRecord
	for rows.Next() {
		var rec MarketRunRecord
		var isValid int
		var result, created string
		if rows.Scan(&rec.ID, &rec.MarketGrade, &rec.TotalProducts, &rec.ValidProducts,
			&isValid, &result, &created) != nil {
			continue
		}
		rec.IsValid = isValid == 1
		json.Unmarshal([]byte(result), &rec.Result)
		rec.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", created)
		records = append(records, rec)
	}
	return records
}
