package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
)

type MockSNS struct {
	mock.Mock
}

func (m *MockSNS) Publish(ctx context.Context, topicArn string, message []byte, attributes map[string]string) error {
	args := m.Called(topicArn, message, attributes)
	return args.Error(0)
}

func TestNewPublisher_NilWithoutTopic(t *testing.T) {
	assert.Nil(t, NewPublisher(new(MockSNS), "", nil))
	assert.Nil(t, NewPublisher(nil, "arn:topic", nil))

	var p *Publisher
	p.OrderPlaced(context.Background(), models.Order{ID: "o1"})
}

func TestPublisher_OrderPlaced(t *testing.T) {
	sns := new(MockSNS)
	p := NewPublisher(sns, "arn:aws:sns:ap-south-1:1:orders", nil)
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	var sent OrderEvent
	sns.On("Publish", "arn:aws:sns:ap-south-1:1:orders", mock.Anything, map[string]string{"event_type": EventOrderPlaced}).
		Run(func(args mock.Arguments) {
			_ = json.Unmarshal(args.Get(1).([]byte), &sent)
		}).
		Return(nil).Once()

	p.OrderPlaced(context.Background(), models.Order{
		ID: "o1", UserID: "stu-1", Status: models.OrderStatusPending, TotalAmount: 5500,
		Items: []models.OrderItem{{Quantity: 2}, {Quantity: 1}},
	})

	sns.AssertExpectations(t)
	assert.Equal(t, EventOrderPlaced, sent.Event)
	assert.Equal(t, "o1", sent.OrderID)
	assert.Equal(t, 3, sent.ItemCount)
	assert.Equal(t, 5500, sent.TotalAmount)
	assert.Equal(t, 2026, sent.Timestamp.Year())
}

func TestPublisher_FailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sns := new(MockSNS)
	sns.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("throttled"))

	p := NewPublisher(sns, "arn:topic", zap.New(core))
	p.OrderCancelled(context.Background(), models.Order{ID: "o2", CancellationReason: "late"})

	assert.Equal(t, 1, logs.FilterMessage("failed to publish order event").Len())
}
