package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/internal/infrastructure/lock"
	"github.com/sangkips/pdv-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/sangkips/pdv-api/pkg/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	products *memory.ProductRepository
	tables   *memory.TableRepository
	sales    *memory.SaleRepository
	users    *memory.UserRepository

	tableCache *TableCache
	catalog    *CatalogCache
	publisher  *recordingPublisher
	metrics    *metrics.Metrics
	locker     *lock.LocalLocker

	productService    *ProductService
	tableService      *TableService
	settlementService *SettlementService
}

func newFixture(t *testing.T, products ...entity.Product) *fixture {
	t.Helper()
	f := &fixture{
		products:  memory.NewProductRepository(products...),
		tables:    memory.NewTableRepository(),
		sales:     memory.NewSaleRepository(),
		users:     memory.NewUserRepository(),
		publisher: &recordingPublisher{},
		metrics:   metrics.New(),
		locker:    lock.NewLocalLocker(),
	}
	require.NoError(t, f.tables.Provision(context.Background(), 12))

	f.tableCache = NewTableCache(f.tables, time.Hour)
	f.catalog = NewCatalogCache(f.products, time.Hour)
	f.productService = NewProductService(f.products, f.catalog)
	f.tableService = NewTableService(f.tables, f.products, f.tableCache)
	f.settlementService = f.settlement(f.tables)
	return f
}

func (f *fixture) settlement(tables domainRepo.TableRepository) *SettlementService {
	return f.settlementWith(tables, f.sales)
}

func (f *fixture) settlementWith(tables domainRepo.TableRepository, sales domainRepo.SaleRepository) *SettlementService {
	return NewSettlementService(SettlementDeps{
		SaleRepo:    sales,
		TableRepo:   tables,
		ProductRepo: f.products,
		Locker:      f.locker,
		LockTTL:     time.Minute,
		Publisher:   f.publisher,
		Metrics:     f.metrics,
		Tables:      f.tableService,
	})
}

func (f *fixture) table(t *testing.T, id int) entity.Table {
	t.Helper()
	table, err := f.tables.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, table)
	return *table
}

type recordingPublisher struct {
	mu    sync.Mutex
	sales []entity.Sale
	err   error
}

func (p *recordingPublisher) PublishSaleSettled(_ context.Context, sale entity.Sale) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sales = append(p.sales, sale.Clone())
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []entity.Sale {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.Sale(nil), p.sales...)
}

var errStoreDown = errors.New("connection refused")

// brokenClear runs every table mutation but fails the write that persists it
type brokenClear struct {
	domainRepo.TableRepository
}

func (b brokenClear) Mutate(ctx context.Context, id int, fn domainRepo.TableMutation) (*entity.Table, error) {
	return b.TableRepository.Mutate(ctx, id, func(table *entity.Table) (bool, error) {
		if _, err := fn(table); err != nil {
			return false, err
		}
		return false, apperror.NewStoreUnavailableError("save table order", errStoreDown)
	})
}

// racingLedger has another device add a product to the table while each
// sale is being appended
type racingLedger struct {
	domainRepo.SaleRepository
	tables    *TableService
	tableID   int
	productID string

	done chan struct{}
	err  error
}

func newRacingLedger(f *fixture, tableID int, productID string) *racingLedger {
	return &racingLedger{
		SaleRepository: f.sales,
		tables:         f.tableService,
		tableID:        tableID,
		productID:      productID,
		done:           make(chan struct{}),
	}
}

func (r *racingLedger) Append(ctx context.Context, sale *entity.Sale) error {
	go func() {
		defer close(r.done)
		_, r.err = r.tables.AddItem(context.Background(), r.tableID, r.productID)
	}()
	// give the other device time to reach the table
	time.Sleep(20 * time.Millisecond)
	return r.SaleRepository.Append(ctx, sale)
}

// wait blocks until the other device's addition has finished
func (r *racingLedger) wait() error {
	select {
	case <-r.done:
		return r.err
	case <-time.After(5 * time.Second):
		return errors.New("concurrent addition never finished")
	}
}

// brokenLedger refuses every append
type brokenLedger struct {
	domainRepo.SaleRepository
}

func (brokenLedger) Append(context.Context, *entity.Sale) error {
	return apperror.NewStoreUnavailableError("append sale", errStoreDown)
}
