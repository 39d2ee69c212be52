package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/sangkips/pdv-api/pkg/printer"
	"github.com/shopspring/decimal"
)

// ErrPrinterUnavailable wraps print failures; the receipt is still returned
var ErrPrinterUnavailable = errors.New("receipt not printed")

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer   printer.Printer
	saleRepo  repository.SaleRepository
	userRepo  repository.UserRepository
	products  *ProductService
	storeName string
	width     int
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	saleRepo repository.SaleRepository,
	userRepo repository.UserRepository,
	products *ProductService,
	storeName string,
) *PrinterService {
	return &PrinterService{
		printer:   p,
		saleRepo:  saleRepo,
		userRepo:  userRepo,
		products:  products,
		storeName: storeName,
		width:     printer.Width58mm,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Kind() != "none",
		Connected:  s.printer.Ready(ctx),
		Type:       s.printer.Kind(),
	}
}

// BuildReceipt resolves names for a recorded sale. Products deleted since
// the sale show as removed with the price they were sold at.
func (s *PrinterService) BuildReceipt(ctx context.Context, sale *entity.Sale) (*entity.Receipt, error) {
	names, err := s.products.ProductNames(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		StoreName:     s.storeName,
		SaleID:        sale.ID,
		Date:          sale.Time().Format("2006-01-02 15:04"),
		PaymentMethod: sale.PaymentMethod.String(),
		Items:         make([]entity.ReceiptItem, 0, len(sale.Items)),
		Total:         sale.Total,
	}
	if sale.TableID != nil {
		id := *sale.TableID
		receipt.Table = &id
	}
	if sale.UserID != nil {
		user, err := s.userRepo.GetByID(ctx, *sale.UserID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			receipt.Cashier = user.Name
		}
	}

	for _, l := range sale.Items {
		name, ok := names(l.ProductID)
		if !ok {
			name = entity.RemovedProductName
		}
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			ProductID: l.ProductID,
			Name:      name,
			Quantity:  l.Quantity,
			UnitPrice: l.PriceAtTime,
			Total:     l.Subtotal(),
		})
	}
	return receipt, nil
}

// PrintSaleReceipt fetches a sale and prints its receipt. When printing
// fails the receipt is returned with an error wrapping ErrPrinterUnavailable.
func (s *PrinterService) PrintSaleReceipt(ctx context.Context, saleID string) (*entity.Receipt, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	receipt, err := s.BuildReceipt(ctx, sale)
	if err != nil {
		return nil, err
	}

	data := FormatReceipt(receipt, s.width)
	if err := s.printer.Print(ctx, data); err != nil {
		if !errors.Is(err, printer.ErrNotConfigured) {
			log.Printf("Printer error (sale %s): %v", saleID, err)
		}
		return receipt, fmt.Errorf("%w: %v", ErrPrinterUnavailable, err)
	}
	return receipt, nil
}

// TestPrint sends a sample receipt to the printer.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		StoreName:     s.storeName,
		SaleID:        "TEST",
		Date:          time.Now().Format("2006-01-02 15:04"),
		PaymentMethod: "Pix",
		Items: []entity.ReceiptItem{
			{ProductID: "test", Name: "Test item", Quantity: 2, UnitPrice: decimal.NewFromInt(5), Total: decimal.NewFromInt(10)},
		},
		Total: decimal.NewFromInt(10),
	}
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		return receipt, fmt.Errorf("%w: %v", ErrPrinterUnavailable, err)
	}
	return receipt, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	t := printer.NewTicket(width)

	t.Align(printer.Center).Bold(true).Large(true).
		Line(r.StoreName).
		Large(false).Bold(false).
		Align(printer.Left).Rule()

	t.Columns("Sale:", shortID(r.SaleID)).
		Columns("Date:", r.Date)
	if r.Table != nil {
		t.Columns("Table:", strconv.Itoa(*r.Table))
	}
	if r.Cashier != "" {
		t.Columns("Attendant:", r.Cashier)
	}
	t.Columns("Payment:", r.PaymentMethod).Rule()

	for _, item := range r.Items {
		t.Columns(fmt.Sprintf("%dx %s", item.Quantity, item.Name), item.Total.StringFixed(2))
		if item.Quantity > 1 {
			t.Line("  @ " + item.UnitPrice.StringFixed(2) + " each")
		}
	}

	t.Rule().
		Bold(true).Columns("TOTAL:", r.Total.StringFixed(2)).Bold(false).
		Rule().
		Align(printer.Center).Feed(1).
		Line("Thank you!").
		Align(printer.Left).
		Cut()

	return t.Bytes()
}

func shortID(id string) string {
	if len(id) > 13 {
		return id[len(id)-13:]
	}
	return id
}
