package broker

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/google/uuid"
)

// Event types
const (
	EventTypeSaleRecorded = "SALE_RECORDED"
	EventTypeLowStock     = "LOW_STOCK"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleRecordedEvent is published after a sale has been persisted.
type SaleRecordedEvent struct {
	BaseEvent
	SaleID string            `json:"sale_id"`
	Total  float64           `json:"total"`
	Items  []models.SaleItem `json:"items"`
}

// LowStockEvent is published when a product drops to or below the
// low-stock threshold.
type LowStockEvent struct {
	BaseEvent
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishSaleRecorded publishes a SaleRecorded event for the given sale.
func (ep *EventPublisher) PublishSaleRecorded(ctx context.Context, sale *models.Sale) error {
	event := &SaleRecordedEvent{
		BaseEvent: BaseEvent{
			EventID:   uuid.New().String(),
			EventType: EventTypeSaleRecorded,
			Timestamp: time.Now(),
		},
		SaleID: sale.ID,
		Total:  sale.Total,
		Items:  sale.Items,
	}

	key := fmt.Sprintf("sale-%s", sale.ID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishLowStock publishes a LowStock event for the given product.
func (ep *EventPublisher) PublishLowStock(ctx context.Context, product *models.Product) error {
	event := &LowStockEvent{
		BaseEvent: BaseEvent{
			EventID:   uuid.New().String(),
			EventType: EventTypeLowStock,
			Timestamp: time.Now(),
		},
		ProductID: product.ID,
		Name:      product.Name,
		Stock:     product.Stock,
	}

	key := fmt.Sprintf("product-%s", product.ID)
	return ep.producer.PublishEvent(ctx, key, event)
}
