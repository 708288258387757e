package service

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"crypto_alert/internal/helper"
	"crypto_alert/internal/models"
	"crypto_alert/pkg/logger"
)

type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	Key       string
	Retention time.Duration
}

// Redis хранит один hash, поле "symbol:kind" → unix seconds последнего срабатывания.
type Redis struct {
	client    *redis.Client
	key       string
	retention time.Duration
	now       func() time.Time
}

func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "failed to connect to Redis %s", opts.Addr)
	}
	logger.Info("connected to Redis %s (db %d)", opts.Addr, opts.DB)

	return &Redis{
		client:    client,
		key:       opts.Key,
		retention: opts.Retention,
		now:       time.Now,
	}, nil
}

func (r *Redis) Load(ctx context.Context) (*models.Ledger, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil && err != redis.Nil {
		return nil, errors.Wrapf(err, "hgetall %s", r.key)
	}
	return models.NewLedger(decodeHash(fields)...), nil
}

func (r *Redis) Save(ctx context.Context, l *models.Ledger) error {
	values := encodeHash(retained(l, r.retention, r.now()))

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(values) > 0 {
			pipe.HSet(ctx, r.key, values)
		}
		return nil
	})
	return errors.Wrapf(err, "save %s", r.key)
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func encodeHash(records []models.CooldownRecord) map[string]interface{} {
	out := make(map[string]interface{}, len(records))
	for _, rec := range records {
		out[helper.CooldownKey(rec.Symbol, string(rec.Kind))] = strconv.FormatInt(rec.LastFiredAt.Unix(), 10)
	}
	return out
}

// decodeHash пропускает битые поля, а не валит весь ledger.
func decodeHash(fields map[string]string) []models.CooldownRecord {
	out := make([]models.CooldownRecord, 0, len(fields))
	for k, v := range fields {
		symbol, kind, ok := helper.SplitCooldownKey(k)
		if !ok {
			logger.Warn("cooldown: skip bad redis field %q", k)
			continue
		}
		sec, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			logger.Warn("cooldown: skip bad redis value %s=%q", k, v)
			continue
		}
		out = append(out, models.CooldownRecord{
			Symbol:      symbol,
			Kind:        models.SignalKind(kind),
			LastFiredAt: time.Unix(sec, 0).UTC(),
		})
	}
	return out
}
