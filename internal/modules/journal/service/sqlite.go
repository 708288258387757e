package service

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"crypto_alert/internal/models"
)

const Schema = `
CREATE TABLE IF NOT EXISTS alerts (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT NOT NULL,
	symbol         TEXT NOT NULL,
	name           TEXT NOT NULL,
	kind           TEXT NOT NULL,
	classification TEXT NOT NULL,
	label          TEXT NOT NULL,
	sentiment      TEXT NOT NULL,
	text           TEXT NOT NULL,
	fired_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS alerts_symbol_fired ON alerts (symbol, fired_at);
`

// SQLite: локальный журнал алертов.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) Record(ctx context.Context, a models.Alert) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO alerts
		(run_id, symbol, name, kind, classification, label, sentiment, text, fired_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.RunID, a.Symbol, a.Name, string(a.Kind), string(a.Classification),
		a.Label, a.Sentiment, a.Text, a.FiredAt.UTC(),
	)
	return err
}

// Recent: последние limit алертов, новые первыми.
func (j *SQLite) Recent(ctx context.Context, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, symbol, name, kind, classification, label, sentiment, text, fired_at
		FROM alerts ORDER BY fired_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Alert
	for rows.Next() {
		var (
			a              models.Alert
			kind, classify string
			firedAt        time.Time
		)
		if err := rows.Scan(&a.RunID, &a.Symbol, &a.Name, &kind, &classify,
			&a.Label, &a.Sentiment, &a.Text, &firedAt); err != nil {
			return nil, err
		}
		a.Kind = models.SignalKind(kind)
		a.Classification = models.Classification(classify)
		a.FiredAt = firedAt.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
