package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"crypto_alert/internal/models"
	"crypto_alert/pkg/db"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS alert_cooldowns (
	symbol        TEXT        NOT NULL,
	kind          TEXT        NOT NULL,
	last_fired_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (symbol, kind)
)`
	selectSQL = `SELECT symbol, kind, last_fired_at FROM alert_cooldowns`
	pruneSQL  = `DELETE FROM alert_cooldowns WHERE last_fired_at < $1`
	upsertSQL = `INSERT INTO alert_cooldowns (symbol, kind, last_fired_at)
VALUES ($1, $2, $3)
ON CONFLICT (symbol, kind) DO UPDATE SET last_fired_at = GREATEST(alert_cooldowns.last_fired_at, EXCLUDED.last_fired_at)`
)

// Postgres: таблица alert_cooldowns. Upsert берёт максимум, чтобы
// параллельный прогон не откатил чужое срабатывание назад.
type Postgres struct {
	db        *db.PgTxManager
	retention time.Duration
	now       func() time.Time
}

func NewPostgres(ctx context.Context, tm *db.PgTxManager, retention time.Duration) (*Postgres, error) {
	if _, err := tm.Conn().Exec(ctx, createTableSQL); err != nil {
		tm.Close()
		return nil, fmt.Errorf("pg.NewPostgres: %w", err)
	}
	return &Postgres{db: tm, retention: retention, now: time.Now}, nil
}

func (p *Postgres) Load(ctx context.Context) (ledger *models.Ledger, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Load: %w", err)
		}
	}()

	rows, err := p.db.Conn().Query(ctx, selectSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CooldownRecord
	for rows.Next() {
		var (
			rec  models.CooldownRecord
			kind string
		)
		if err := rows.Scan(&rec.Symbol, &kind, &rec.LastFiredAt); err != nil {
			return nil, err
		}
		rec.Kind = models.SignalKind(kind)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return models.NewLedger(records...), nil
}

func (p *Postgres) Save(ctx context.Context, l *models.Ledger) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Save: %w", err)
		}
	}()

	now := p.now()
	records := retained(l, p.retention, now)

	return p.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		if p.retention > 0 {
			if _, err := tx.Exec(ctxTx, pruneSQL, now.Add(-p.retention)); err != nil {
				return err
			}
		}
		batch := &pgx.Batch{}
		for _, rec := range records {
			batch.Queue(upsertSQL, rec.Symbol, string(rec.Kind), rec.LastFiredAt)
		}
		if batch.Len() == 0 {
			return nil
		}
		return tx.SendBatch(ctxTx, batch).Close()
	})
}

func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}
