// Package events announces order lifecycle changes on SNS. Publishing is
// best effort: a failure is logged and never fails the user's request.
package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/Tiyani-source/MindMattersProject-sub002/pkg/aws"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/common/logger"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

const (
	EventOrderPlaced    = "order.placed"
	EventOrderCancelled = "order.cancelled"

	publishTimeout = 5 * time.Second
)

type OrderEvent struct {
	Event       string             `json:"event"`
	OrderID     string             `json:"order_id"`
	UserID      string             `json:"user_id"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount int                `json:"total_amount"`
	ItemCount   int                `json:"item_count"`
	Reason      string             `json:"reason,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
}

type Publisher struct {
	sns      awspkg.SNSPublisher
	topicArn string
	log      *zap.Logger
	now      func() time.Time
}

// NewPublisher returns nil when there is nowhere to publish; a nil
// *Publisher is valid and drops every event.
func NewPublisher(sns awspkg.SNSPublisher, topicArn string, log *zap.Logger) *Publisher {
	if sns == nil || topicArn == "" {
		return nil
	}
	return &Publisher{sns: sns, topicArn: topicArn, log: logger.OrNop(log), now: time.Now}
}

func (p *Publisher) OrderPlaced(ctx context.Context, order models.Order) {
	p.publish(ctx, EventOrderPlaced, order)
}

func (p *Publisher) OrderCancelled(ctx context.Context, order models.Order) {
	p.publish(ctx, EventOrderCancelled, order)
}

func (p *Publisher) publish(ctx context.Context, event string, order models.Order) {
	if p == nil {
		return
	}
	items := 0
	for _, item := range order.Items {
		items += item.Quantity
	}
	body, err := json.Marshal(OrderEvent{
		Event:       event,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		ItemCount:   items,
		Reason:      order.CancellationReason,
		Timestamp:   p.now().UTC(),
	})
	if err != nil {
		logger.For(ctx, p.log).Error("failed to encode order event", zap.Error(err))
		return
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.sns.Publish(pctx, p.topicArn, body, map[string]string{"event_type": event}); err != nil {
		logger.For(ctx, p.log).Warn("failed to publish order event",
			zap.String("event", event), zap.String("order_id", order.ID), zap.Error(err))
	}
}
