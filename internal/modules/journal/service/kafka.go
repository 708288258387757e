package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"crypto_alert/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka публикует алерты JSON-ом, ключ: символ.
type Kafka struct {
	writer messageWriter
}

func NewKafka(brokers []string, topic string) *Kafka {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	return &Kafka{writer: writer}
}

func (k *Kafka) Record(ctx context.Context, a models.Alert) error {
	value, err := sonic.Marshal(a)
	if err != nil {
		return errors.Wrap(err, "encode alert")
	}
	err = k.writer.WriteMessages(ctx,
		kafka.Message{
			Key:   []byte(a.Symbol),
			Value: value,
			Time:  a.FiredAt,
		},
	)
	return errors.Wrap(err, "kafka publish")
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
