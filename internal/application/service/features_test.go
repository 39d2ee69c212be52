package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/sangkips/pdv-api/internal/application/report"
	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/enum"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

const featurePath = "../../../features"

type settlementTestContext struct {
	t        *testing.T
	f        *fixture
	lastSale *entity.Sale
	err      error
	racing   *racingLedger
}

func (c *settlementTestContext) reset() {
	c.f = newFixture(c.t)
	c.lastSale = nil
	c.err = nil
	c.racing = nil
}

func (c *settlementTestContext) theCatalogHasProduct(id, name, price string) error {
	_, err := c.f.productService.UpsertProduct(context.Background(), &UpsertProductInput{ID: id, Name: name, Price: decimal.RequireFromString(price)})
	return err
}

func (c *settlementTestContext) productIsRepriced(id, price string) error {
	product, err := c.f.productService.GetProduct(context.Background(), id)
	if err != nil {
		return err
	}
	_, err = c.f.productService.UpsertProduct(context.Background(), &UpsertProductInput{
		ID: id, Name: product.Name, Price: decimal.RequireFromString(price), Category: product.Category,
	})
	return err
}

func (c *settlementTestContext) iAddProductToTable(productID string, tableID int) error {
	_, err := c.f.tableService.AddItem(context.Background(), tableID, productID)
	return err
}

func (c *settlementTestContext) iRemoveProductFromTable(productID string, tableID int) error {
	_, err := c.f.tableService.RemoveItem(context.Background(), tableID, productID)
	return err
}

func (c *settlementTestContext) theTableStoreStopsAcceptingWrites() error {
	c.f.settlementService = c.f.settlement(brokenClear{c.f.tables})
	return nil
}

func (c *settlementTestContext) anotherDeviceAddsWhileSettling(productID string, tableID int) error {
	c.racing = newRacingLedger(c.f, tableID, productID)
	c.f.settlementService = c.f.settlementWith(c.f.tables, c.racing)
	return nil
}

func (c *settlementTestContext) theOtherDevicesAdditionSucceeds() error {
	if c.racing == nil {
		return fmt.Errorf("no other device is adding items")
	}
	return c.racing.wait()
}

func (c *settlementTestContext) iSettleTableWith(tableID int, method string) error {
	pm, err := enum.ParsePaymentMethod(method)
	if err != nil {
		return err
	}
	c.lastSale, c.err = c.f.settlementService.SettleTable(context.Background(), &SettleTableInput{TableID: tableID, PaymentMethod: pm})
	return nil
}

func (c *settlementTestContext) theSettlementSucceeds() error {
	return c.err
}

func (c *settlementTestContext) theSettlementFailsWith(kind string) error {
	if c.err == nil {
		return fmt.Errorf("expected a %s failure, settlement succeeded", kind)
	}
	if !apperror.IsKind(c.err, apperror.Kind(kind)) {
		return fmt.Errorf("expected a %s failure, got %v", kind, c.err)
	}
	return nil
}

func (c *settlementTestContext) lookup(tableID int) (*entity.Table, error) {
	return c.f.tableService.GetTable(context.Background(), tableID)
}

func (c *settlementTestContext) tableHasLine(tableID, lines int, productID string, qty int, price string) error {
	table, err := c.lookup(tableID)
	if err != nil {
		return err
	}
	if len(table.Orders) != lines {
		return fmt.Errorf("table %d has %d lines, want %d", tableID, len(table.Orders), lines)
	}
	return expectLine(table.Orders, productID, qty, price)
}

func (c *settlementTestContext) tableHasNoLines(tableID int) error {
	table, err := c.lookup(tableID)
	if err != nil {
		return err
	}
	if len(table.Orders) != 0 {
		return fmt.Errorf("table %d still has %d lines", tableID, len(table.Orders))
	}
	return nil
}

func (c *settlementTestContext) tableTotals(tableID int, total string) error {
	table, err := c.lookup(tableID)
	if err != nil {
		return err
	}
	return expectAmount("table total", table.Total(), total)
}

func (c *settlementTestContext) tableIs(tableID int, status string) error {
	table, err := c.lookup(tableID)
	if err != nil {
		return err
	}
	if table.Status.String() != status {
		return fmt.Errorf("table %d is %s, want %s", tableID, table.Status, status)
	}
	return nil
}

func (c *settlementTestContext) theLastSaleTotals(total, method string) error {
	if c.lastSale == nil {
		return fmt.Errorf("no sale was recorded")
	}
	if c.lastSale.PaymentMethod.String() != method {
		return fmt.Errorf("sale paid with %s, want %s", c.lastSale.PaymentMethod, method)
	}
	return expectAmount("sale total", c.lastSale.Total, total)
}

func (c *settlementTestContext) theLastSaleHolds(productID string, qty int, price string) error {
	if c.lastSale == nil {
		return fmt.Errorf("no sale was recorded")
	}
	stored, err := c.f.sales.GetByID(context.Background(), c.lastSale.ID)
	if err != nil {
		return err
	}
	return expectLine(stored.Items, productID, qty, price)
}

func (c *settlementTestContext) theLedgerHasSales(n int) error {
	if got := c.f.sales.Len(); got != n {
		return fmt.Errorf("ledger has %d sales, want %d", got, n)
	}
	return nil
}

func (c *settlementTestContext) theLedgerHasASale(total, method string) error {
	pm, err := enum.ParsePaymentMethod(method)
	if err != nil {
		return err
	}
	sale, err := NewSale(entity.OrderLines{{ProductID: "A", Quantity: 1, PriceAtTime: decimal.RequireFromString(total)}}, pm, nil, c.f.settlementService.now())
	if err != nil {
		return err
	}
	return c.f.sales.Append(context.Background(), &sale)
}

func (c *settlementTestContext) ledger() ([]entity.Sale, error) {
	return c.f.sales.List(context.Background(), entity.SaleFilter{})
}

func (c *settlementTestContext) theTotalRevenueIs(total string) error {
	sales, err := c.ledger()
	if err != nil {
		return err
	}
	return expectAmount("total revenue", report.TotalRevenue(sales), total)
}

func (c *settlementTestContext) theAverageTicketIs(avg string) error {
	sales, err := c.ledger()
	if err != nil {
		return err
	}
	return expectAmount("average ticket", report.AverageTicket(sales), avg)
}

func (c *settlementTestContext) revenueForIs(method, amount string) error {
	pm, err := enum.ParsePaymentMethod(method)
	if err != nil {
		return err
	}
	sales, err := c.ledger()
	if err != nil {
		return err
	}
	return expectAmount(method+" revenue", report.RevenueByPaymentMethod(sales)[pm], amount)
}

func expectLine(lines entity.OrderLines, productID string, qty int, price string) error {
	line, ok := lines.Find(productID)
	if !ok {
		return fmt.Errorf("no line for product %s", productID)
	}
	if line.Quantity != qty {
		return fmt.Errorf("product %s has quantity %d, want %d", productID, line.Quantity, qty)
	}
	return expectAmount("price at time", line.PriceAtTime, price)
}

func expectAmount(what string, got decimal.Decimal, want string) error {
	if !got.Equal(decimal.RequireFromString(want)) {
		return fmt.Errorf("%s is %s, want %s", what, got.StringFixed(2), want)
	}
	return nil
}

func initializeSettlementScenario(t *testing.T) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		tc := &settlementTestContext{t: t}

		ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
			tc.reset()
			return ctx, nil
		})

		// Given steps
		ctx.Step(`^the catalog has product "([^"]*)" named "([^"]*)" priced ([\d.]+)$`, tc.theCatalogHasProduct)
		ctx.Step(`^the table store stops accepting writes$`, tc.theTableStoreStopsAcceptingWrites)
		ctx.Step(`^another device adds product "([^"]*)" to table (\d+) while it is being settled$`, tc.anotherDeviceAddsWhileSettling)
		ctx.Step(`^the ledger has a sale of ([\d.]+) paid with "([^"]*)"$`, tc.theLedgerHasASale)

		// When steps
		ctx.Step(`^I add product "([^"]*)" to table (\d+)$`, tc.iAddProductToTable)
		ctx.Step(`^I remove product "([^"]*)" from table (\d+)$`, tc.iRemoveProductFromTable)
		ctx.Step(`^product "([^"]*)" is repriced to ([\d.]+)$`, tc.productIsRepriced)
		ctx.Step(`^I settle table (\d+) with "([^"]*)"$`, tc.iSettleTableWith)

		// Then steps
		ctx.Step(`^the settlement succeeds$`, tc.theSettlementSucceeds)
		ctx.Step(`^the other device's addition succeeds$`, tc.theOtherDevicesAdditionSucceeds)
		ctx.Step(`^the settlement fails with "([^"]*)"$`, tc.theSettlementFailsWith)
		ctx.Step(`^table (\d+) has (\d+) lines? with product "([^"]*)" quantity (\d+) at ([\d.]+)$`, tc.tableHasLine)
		ctx.Step(`^table (\d+) has no lines$`, tc.tableHasNoLines)
		ctx.Step(`^table (\d+) totals ([\d.]+)$`, tc.tableTotals)
		ctx.Step(`^table (\d+) is "([^"]*)"$`, tc.tableIs)
		ctx.Step(`^the last sale totals ([\d.]+) paid with "([^"]*)"$`, tc.theLastSaleTotals)
		ctx.Step(`^the last sale holds product "([^"]*)" quantity (\d+) at ([\d.]+)$`, tc.theLastSaleHolds)
		ctx.Step(`^the ledger has (\d+) sales?$`, tc.theLedgerHasSales)
		ctx.Step(`^the total revenue is ([\d.]+)$`, tc.theTotalRevenueIs)
		ctx.Step(`^the average ticket is ([\d.]+)$`, tc.theAverageTicketIs)
		ctx.Step(`^revenue for "([^"]*)" is ([\d.]+)$`, tc.revenueForIs)
	}
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeSettlementScenario(t),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{featurePath},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
