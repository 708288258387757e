package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"crypto_alert/internal/models"
)

// File: JSON-снапшот на диске. Параллельные процессы друг друга не видят.
type File struct {
	path      string
	retention time.Duration
	now       func() time.Time

	mu sync.Mutex
}

const defaultPath = "data/cooldown.json"

func NewFile(path string, retention time.Duration) *File {
	if path == "" {
		path = defaultPath
	}
	return &File{
		path:      path,
		retention: retention,
		now:       time.Now,
	}
}

// ---- storage format ----

type snapshot struct {
	UpdatedAt time.Time               `json:"updated_at"`
	Records   []models.CooldownRecord `json:"records"`
}

func (f *File) Load(ctx context.Context) (*models.Ledger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewLedger(), nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(b) == 0 {
		return models.NewLedger(), nil
	}

	var snap snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return models.NewLedger(snap.Records...), nil
}

func (f *File) Save(ctx context.Context, l *models.Ledger) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	now := f.now()
	snap := snapshot{
		UpdatedAt: now.UTC(),
		Records:   retained(l, f.retention, now),
	}

	b, err := json.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, f.path) // атомарно
}

func (f *File) Close() error { return nil }
