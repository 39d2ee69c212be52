package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/sangkips/pdv-api/pkg/pagination"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sales"

// SaleService reads the sale ledger
type SaleService struct {
	saleRepo repository.SaleRepository
	products *ProductService
}

// NewSaleService creates a new sale service
func NewSaleService(saleRepo repository.SaleRepository, products *ProductService) *SaleService {
	return &SaleService{saleRepo: saleRepo, products: products}
}

// ListSales returns one page of the ledger, newest first
func (s *SaleService) ListSales(ctx context.Context, filter entity.SaleFilter, params pagination.Params) (*pagination.Page[entity.Sale], error) {
	params = params.Normalize()
	sales, total, err := s.saleRepo.Page(ctx, filter, params)
	if err != nil {
		return nil, err
	}
	return &pagination.Page[entity.Sale]{Items: sales, Pagination: pagination.NewMeta(params, total)}, nil
}

// GetSale retrieves a sale by ID
func (s *SaleService) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ExportSales writes the sales in the window to an XLSX workbook, one row
// per sale, newest first
func (s *SaleService) ExportSales(ctx context.Context, filter entity.SaleFilter, loc *time.Location) ([]byte, error) {
	sales, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	names, err := s.products.ProductNames(ctx)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, apperror.NewInternalError("failed to build export", err)
	}
	header := []interface{}{"Sale", "Date", "Source", "Table", "Payment", "User", "Items", "Total"}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, apperror.NewInternalError("failed to build export", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, apperror.NewInternalError("failed to build export", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "H1", bold); err != nil {
		return nil, apperror.NewInternalError("failed to build export", err)
	}

	for i, sale := range sales {
		row := []interface{}{
			sale.ID,
			sale.Time().In(loc).Format("2006-01-02 15:04:05"),
			sale.Source,
			optionalInt(sale.TableID),
			sale.PaymentMethod.String(),
			optionalString(sale.UserID),
			describeItems(sale.Items, names),
			sale.Total.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, apperror.NewInternalError("failed to build export", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, apperror.NewInternalError("failed to build export", err)
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "A", 38); err != nil {
		return nil, apperror.NewInternalError("failed to build export", err)
	}
	if err := f.SetColWidth(exportSheet, "G", "G", 60); err != nil {
		return nil, apperror.NewInternalError("failed to build export", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperror.NewInternalError("failed to build export", err)
	}
	return buf.Bytes(), nil
}

func describeItems(lines entity.OrderLines, names func(string) (string, bool)) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		name, ok := names(l.ProductID)
		if !ok {
			name = entity.RemovedProductName
		}
		parts = append(parts, fmt.Sprintf("%dx %s @ %s", l.Quantity, name, l.PriceAtTime.StringFixed(2)))
	}
	return strings.Join(parts, "; ")
}

func optionalInt(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
