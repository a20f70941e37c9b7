package poller

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/priyanka5064/ecom-backend/internal/domain"
	"github.com/priyanka5064/ecom-backend/internal/repository"
)

// CartClearer is the slice of the cart service the poller drives.
type CartClearer interface {
	ClearCart(ctx context.Context, userID string) (*domain.Cart, error)
}

// Poller consumes order-completion events and empties the ordered user's
// cart. The cart document is kept, matching the clear operation's
// lifecycle; a user without a cart is a no-op.
type Poller struct {
	service CartClearer
	reader  *kafka.Reader
	log     zerolog.Logger
}

func New(service CartClearer, log zerolog.Logger, topic, groupID string, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{service: service, reader: reader, log: log}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.consumeAndClear(ctx)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.log.Error().Err(err).Msg("error closing kafka reader")
	}
}

func (p *Poller) consumeAndClear(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			p.log.Error().Err(err).Msg("error reading message")
		}
		return
	}

	p.handleMessage(ctx, m.Value)
}

func (p *Poller) handleMessage(ctx context.Context, value []byte) {
	var payload struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(value, &payload); err != nil {
		p.log.Error().Err(err).Msg("error parsing message")
		return
	}
	if payload.UserID == "" {
		p.log.Warn().Msg("missing or invalid user_id")
		return
	}

	if _, err := p.service.ClearCart(ctx, payload.UserID); err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		p.log.Error().Err(err).Str("user_id", payload.UserID).Msg("failed to clear cart")
	}
}
