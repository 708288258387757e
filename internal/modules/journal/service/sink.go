package service

import (
	"context"

	"crypto_alert/internal/models"
	"crypto_alert/pkg/logger"
)

// Sink получает каждый отправленный алерт.
type Sink interface {
	Record(ctx context.Context, a models.Alert) error
	Close() error
}

// Multi раздаёт алерт всем синкам; ошибки только логируются.
type Multi struct {
	sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Multi{sinks: out}
}

func (m *Multi) Len() int { return len(m.sinks) }

func (m *Multi) Record(ctx context.Context, a models.Alert) error {
	for _, s := range m.sinks {
		if err := s.Record(ctx, a); err != nil {
			logger.Error("journal: %T record %s/%s: %v", s, a.Symbol, a.Kind, err)
		}
	}
	return nil
}

func (m *Multi) Close() error {
	var first error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
