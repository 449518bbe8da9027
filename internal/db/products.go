package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"launchfast/internal/engine"
	"launchfast/internal/logger"
)

// SaveProduct upserts a researched product record. The full record is stored
// as JSON so the legacy/verified field shapes survive round-trips unchanged.
func (d *DB) SaveProduct(p *engine.Product) error {
	if p == nil || p.ASIN == "" {
		return fmt.Errorf("save product: missing ASIN")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("save product %s: %w", p.ASIN, err)
	}
	_, err = d.sql.Exec(`
		INSERT INTO products (asin, title, category, data, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(asin) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, p.ASIN, p.Title, p.Category, string(data))
	if err != nil {
		return fmt.Errorf("save product %s: %w", p.ASIN, err)
	}
	return nil
}

// GetProduct loads one product by ASIN; (nil, nil) when absent.
func (d *DB) GetProduct(asin string) (*engine.Product, error) {
	var data string
	err := d.sql.QueryRow(`SELECT data FROM products WHERE asin = ?`, asin).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product %s: %w", asin, err)
	}
	var p engine.Product
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("get product %s: %w", asin, err)
	}
	return &p, nil
}

// ListProducts returns up to limit products, most recently updated first.
func (d *DB) ListProducts(limit int) []*engine.Product {
	if limit <= 0 {
		limit = 100
	}
	rows, err := d.sql.Query(`SELECT data FROM products ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("list products: %v", err))
		return nil
	}
	defer rows.Close()

	var products []*engine.Product
	for rows.Next() {
		var data string
		if rows.Scan(&data) != nil {
			continue
		}
		var p engine.Product
		if json.Unmarshal([]byte(data), &p) == nil {
			products = append(products, &p)
		}
	}
	return products
}
