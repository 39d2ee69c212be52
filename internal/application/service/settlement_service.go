package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/enum"
	"github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/internal/infrastructure/lock"
	"github.com/sangkips/pdv-api/internal/infrastructure/messaging"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/sangkips/pdv-api/pkg/metrics"
	"github.com/sangkips/pdv-api/pkg/tracing"
	"github.com/sangkips/pdv-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const publishTimeout = 5 * time.Second

// SettlementService turns a table or a direct-sale cart into a sale
type SettlementService struct {
	saleRepo    repository.SaleRepository
	tableRepo   repository.TableRepository
	productRepo repository.ProductRepository
	locker      lock.Locker
	lockTTL     time.Duration
	publisher   messaging.SalePublisher
	metrics     *metrics.Metrics
	tables      *TableService
	now         func() time.Time
}

// SettlementDeps groups the collaborators of SettlementService
type SettlementDeps struct {
	SaleRepo    repository.SaleRepository
	TableRepo   repository.TableRepository
	ProductRepo repository.ProductRepository
	Locker      lock.Locker
	LockTTL     time.Duration
	Publisher   messaging.SalePublisher
	Metrics     *metrics.Metrics
	// Tables receives the freed table so its snapshot stays current
	Tables *TableService
}

// NewSettlementService creates a new settlement service
func NewSettlementService(deps SettlementDeps) *SettlementService {
	if deps.Locker == nil {
		deps.Locker = lock.NewLocalLocker()
	}
	if deps.LockTTL <= 0 {
		deps.LockTTL = 15 * time.Second
	}
	if deps.Publisher == nil {
		deps.Publisher = messaging.NopPublisher{}
	}
	return &SettlementService{
		saleRepo:    deps.SaleRepo,
		tableRepo:   deps.TableRepo,
		productRepo: deps.ProductRepo,
		locker:      deps.Locker,
		lockTTL:     deps.LockTTL,
		publisher:   deps.Publisher,
		metrics:     deps.Metrics,
		tables:      deps.Tables,
		now:         time.Now,
	}
}

// SettleTableInput represents a table settlement request
type SettleTableInput struct {
	TableID       int
	PaymentMethod enum.PaymentMethod
	ActorID       *string
}

// DirectSaleItemInput is one cart line sent by the client
type DirectSaleItemInput struct {
	ProductID string
	Quantity  int
	// PriceAtTime is the price the client showed; nil takes the catalog price
	PriceAtTime *decimal.Decimal
}

// DirectSaleInput represents a walk-up checkout
type DirectSaleInput struct {
	// Key identifies the checkout attempt; concurrent attempts with the same key are refused
	Key           string
	// KeyActor scopes Key to the caller that sent it; empty falls back to ActorID
	KeyActor      string
	Items         []DirectSaleItemInput
	PaymentMethod enum.PaymentMethod
	ActorID       *string
}

// NewSale builds a sale from a snapshot of lines. It has no side effects.
func NewSale(lines entity.OrderLines, method enum.PaymentMethod, actorID *string, at time.Time) (entity.Sale, error) {
	if len(lines) == 0 {
		return entity.Sale{}, apperror.ErrNothingToSettle
	}
	if !method.Valid() {
		return entity.Sale{}, apperror.NewInvalidOperationError("unknown payment method")
	}
	if err := lines.Validate(); err != nil {
		return entity.Sale{}, apperror.NewInvalidOperationError(err.Error())
	}

	sale := entity.Sale{
		ID:            utils.NewSaleID(),
		Items:         lines.Clone(),
		Total:         lines.Total(),
		PaymentMethod: method,
		Source:        entity.SaleSourceDirect,
		Timestamp:     at.UnixMilli(),
	}
	if actorID != nil && *actorID != "" {
		id := *actorID
		sale.UserID = &id
	}
	return sale, nil
}

// SettleTable records the table's lines as a sale and frees the table.
// The row stays locked from the read to the clear, so an item added from
// another device lands either on the sale or on the next session.
// If the sale is recorded but the table cannot be freed the error is a
// partial settlement carrying the sale; the table must then be cleared, not
// settled again.
func (s *SettlementService) SettleTable(ctx context.Context, input *SettleTableInput) (sale *entity.Sale, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "settlement.table",
		trace.WithAttributes(attribute.Int("table.id", input.TableID)))
	defer func() { endSpan(span, sale, err) }()

	if !input.PaymentMethod.Valid() {
		return nil, apperror.NewInvalidOperationError("unknown payment method")
	}

	release, err := s.acquire(ctx, "table:"+strconv.Itoa(input.TableID))
	if err != nil {
		return nil, err
	}
	defer release()

	var recorded *entity.Sale
	freed, err := s.tableRepo.Mutate(ctx, input.TableID, func(table *entity.Table) (bool, error) {
		built, err := NewSale(table.Orders, input.PaymentMethod, input.ActorID, s.now())
		if err != nil {
			return false, err
		}
		built.Source = entity.SaleSourceTable
		tableID := input.TableID
		built.TableID = &tableID

		if err := s.saleRepo.Append(ctx, &built); err != nil {
			return false, err
		}
		recorded = &built
		*table = table.Cleared()
		return true, nil
	})

	if recorded == nil {
		if err != nil {
			return nil, err
		}
		return nil, apperror.NewNotFoundError("Table")
	}
	if err == nil && freed == nil {
		err = apperror.NewNotFoundError("Table")
	}
	if err != nil {
		s.metrics.ObservePartialSettlement()
		log.Printf("Partial settlement: sale %s recorded but table %d not cleared: %v", recorded.ID, input.TableID, err)
		return recorded, apperror.NewPartialSettlementError(*recorded, err)
	}
	if s.tables != nil {
		s.tables.remember(*freed)
	}

	s.settled(ctx, *recorded)
	return recorded, nil
}

// SettleDirectSale rebuilds the cart from the client's lines and records it
// as a sale. Every product must be in the catalog.
func (s *SettlementService) SettleDirectSale(ctx context.Context, input *DirectSaleInput) (sale *entity.Sale, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "settlement.direct",
		trace.WithAttributes(attribute.Int("cart.items", len(input.Items))))
	defer func() { endSpan(span, sale, err) }()

	if len(input.Items) == 0 {
		return nil, apperror.ErrNothingToSettle
	}
	if !input.PaymentMethod.Valid() {
		return nil, apperror.NewInvalidOperationError("unknown payment method")
	}

	if input.Key != "" {
		release, err := s.acquire(ctx, cartLockKey(input))
		if err != nil {
			return nil, err
		}
		defer release()
	}

	cart, err := s.buildCart(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	built, err := NewSale(cart.Lines(), input.PaymentMethod, input.ActorID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.saleRepo.Append(ctx, &built); err != nil {
		return nil, err
	}
	cart.Clear()

	s.settled(ctx, built)
	return &built, nil
}

func (s *SettlementService) buildCart(ctx context.Context, items []DirectSaleItemInput) (*entity.Cart, error) {
	// Batch fetch all products in one query
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	cart := entity.NewCart()
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, apperror.NewInvalidOperationError(fmt.Sprintf("quantity of %s must be at least 1", item.ProductID))
		}
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, apperror.NewInvalidOperationError(fmt.Sprintf("product %s is not in the catalog", item.ProductID))
		}
		price := product.Price
		if item.PriceAtTime != nil {
			if item.PriceAtTime.IsNegative() {
				return nil, apperror.NewInvalidOperationError(fmt.Sprintf("price of %s must not be negative", item.ProductID))
			}
			if !item.PriceAtTime.Equal(product.Price) {
				log.Printf("Price override: product %s sold at %s, catalog price %s", product.ID, item.PriceAtTime.StringFixed(2), product.Price.StringFixed(2))
			}
			price = *item.PriceAtTime
		}
		cart.AddLine(product.ID, item.Quantity, price)
	}
	return cart, nil
}

// cartLockKey scopes a checkout key to its actor, like the idempotency record
func cartLockKey(input *DirectSaleInput) string {
	actor := input.KeyActor
	if actor == "" && input.ActorID != nil {
		actor = *input.ActorID
	}
	return "cart:" + actor + ":" + input.Key
}

func (s *SettlementService) acquire(ctx context.Context, key string) (func(), error) {
	lease, err := s.locker.TryLock(ctx, key, s.lockTTL)
	if errors.Is(err, lock.ErrHeld) {
		return nil, apperror.NewInvalidOperationError("settlement already in progress")
	}
	if err != nil {
		return nil, apperror.NewStoreUnavailableError("acquire settlement lock", err)
	}
	return func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			log.Printf("Warning: failed to release settlement lock %s: %v", key, err)
		}
	}, nil
}

// settled records metrics and announces the sale. Publishing is best effort.
func (s *SettlementService) settled(ctx context.Context, sale entity.Sale) {
	total, _ := sale.Total.Float64()
	s.metrics.ObserveSale(sale.PaymentMethod.String(), sale.Source, total)

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishSaleSettled(pctx, sale); err != nil {
		log.Printf("Warning: failed to publish sale %s: %v", sale.ID, err)
	}
}

func endSpan(span trace.Span, sale *entity.Sale, err error) {
	if sale != nil {
		span.SetAttributes(
			attribute.String("sale.id", sale.ID),
			attribute.String("sale.total", sale.Total.StringFixed(2)),
			attribute.String("sale.payment_method", sale.PaymentMethod.String()),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
