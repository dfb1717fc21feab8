package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/altapos/variant-wizard-service/internal/attribute"
	"github.com/altapos/variant-wizard-service/internal/pkg/broker"
	"github.com/altapos/variant-wizard-service/internal/pkg/logger"
)

// CatalogListener consumes catalog change events published by the admin
// backend and drops the affected merchant's normalized-group cache so the next
// wizard read re-derives it.
type CatalogListener struct {
	consumer *broker.KafkaConsumer
	uc       attribute.UseCase
	logger   logger.ZapLogger
}

func NewCatalogListener(consumer *broker.KafkaConsumer, uc attribute.UseCase, logger logger.ZapLogger) *CatalogListener {
	return &CatalogListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *CatalogListener) Start(ctx context.Context) {
	l.logger.Info("Starting Catalog Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Catalog Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type CatalogChangedEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Payload   CatalogPayload `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type CatalogPayload struct {
	MerchantID string `json:"merchant_id"`
	GroupID    *int64 `json:"group_id"`
}

func (l *CatalogListener) processMessage(ctx context.Context, value []byte) {
	var event CatalogChangedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	switch event.EventType {
	case "AttributeGroupChanged", "ColorCatalogChanged":
	default:
		return
	}
	if event.Payload.MerchantID == "" {
		return
	}

	l.logger.Info("Invalidating normalized group cache",
		zap.String("event_type", event.EventType),
		zap.String("merchant_id", event.Payload.MerchantID),
	)
	l.uc.InvalidateCache(ctx, event.Payload.MerchantID)
}
