package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/segmentio/kafka-go"
)

const EventSaleSettled = "sale.settled"

// SaleEvent is the message value written for every settled sale
type SaleEvent struct {
	Type          string            `json:"type"`
	SaleID        string            `json:"sale_id"`
	Source        string            `json:"source"`
	TableID       *int              `json:"table_id,omitempty"`
	UserID        *string           `json:"user_id,omitempty"`
	PaymentMethod string            `json:"payment_method"`
	Total         string            `json:"total"`
	Items         entity.OrderLines `json:"items"`
	Timestamp     int64             `json:"timestamp"`
}

func NewSaleEvent(sale entity.Sale) SaleEvent {
	return SaleEvent{
		Type:          EventSaleSettled,
		SaleID:        sale.ID,
		Source:        sale.Source,
		TableID:       sale.TableID,
		UserID:        sale.UserID,
		PaymentMethod: sale.PaymentMethod.String(),
		Total:         sale.Total.StringFixed(2),
		Items:         sale.Items.Clone(),
		Timestamp:     sale.Timestamp,
	}
}

// SalePublisher announces settled sales to downstream consumers
type SalePublisher interface {
	PublishSaleSettled(ctx context.Context, sale entity.Sale) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaSalePublisher struct {
	writer messageWriter
}

// NewKafkaSalePublisher writes to topic. Messages are keyed by table so
// one table's sales stay ordered within a partition.
func NewKafkaSalePublisher(brokers []string, topic string) *KafkaSalePublisher {
	return &KafkaSalePublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}}
}

func (p *KafkaSalePublisher) PublishSaleSettled(ctx context.Context, sale entity.Sale) error {
	data, err := json.Marshal(NewSaleEvent(sale))
	if err != nil {
		return fmt.Errorf("encode sale event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(partitionKey(sale)),
		Value: data,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventSaleSettled)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish sale %s: %w", sale.ID, err)
	}
	return nil
}

func (p *KafkaSalePublisher) Close() error {
	return p.writer.Close()
}

func partitionKey(sale entity.Sale) string {
	if sale.TableID != nil {
		return "table:" + strconv.Itoa(*sale.TableID)
	}
	return "direct:" + sale.ID
}

// NopPublisher is used when KAFKA_BROKERS is empty
type NopPublisher struct{}

func (NopPublisher) PublishSaleSettled(context.Context, entity.Sale) error { return nil }
func (NopPublisher) Close() error                                          { return nil }
