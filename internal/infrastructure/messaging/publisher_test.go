package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/enum"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublishSaleSettled(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaSalePublisher{writer: w}
	table := 4

	sale := entity.Sale{
		ID:            "sale-1",
		Items:         entity.OrderLines{{ProductID: "a", Quantity: 2, PriceAtTime: decimal.NewFromInt(10)}},
		Total:         decimal.NewFromInt(20),
		PaymentMethod: enum.PaymentMethodCard,
		Source:        entity.SaleSourceTable,
		TableID:       &table,
		Timestamp:     1700000000000,
	}
	require.NoError(t, p.PublishSaleSettled(context.Background(), sale))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "table:4", string(w.msgs[0].Key))

	var ev SaleEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &ev))
	assert.Equal(t, EventSaleSettled, ev.Type)
	assert.Equal(t, "Card", ev.PaymentMethod)
	assert.Equal(t, "20.00", ev.Total)
	assert.Equal(t, 4, *ev.TableID)
	assert.Len(t, ev.Items, 1)
}

func TestPublishDirectSaleKey(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaSalePublisher{writer: w}

	require.NoError(t, p.PublishSaleSettled(context.Background(), entity.Sale{ID: "s2", Source: entity.SaleSourceDirect}))
	assert.Equal(t, "direct:s2", string(w.msgs[0].Key))
}

func TestPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaSalePublisher{writer: &recordingWriter{err: boom}}

	err := p.PublishSaleSettled(context.Background(), entity.Sale{ID: "s3"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "s3")
}
