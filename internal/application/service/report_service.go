package service

import (
	"context"

	"github.com/sangkips/pdv-api/internal/application/report"
	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/repository"
)

// ReportService summarizes the sale ledger
type ReportService struct {
	saleRepo   repository.SaleRepository
	products   *ProductService
	defaultTop int
}

// NewReportService creates a new report service
func NewReportService(saleRepo repository.SaleRepository, products *ProductService, defaultTop int) *ReportService {
	if defaultTop <= 0 {
		defaultTop = 5
	}
	return &ReportService{saleRepo: saleRepo, products: products, defaultTop: defaultTop}
}

// Summary aggregates the sales in the window. top <= 0 uses the default.
func (s *ReportService) Summary(ctx context.Context, filter entity.SaleFilter, top int) (*report.Summary, error) {
	if top <= 0 {
		top = s.defaultTop
	}
	sales, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	names, err := s.products.ProductNames(ctx)
	if err != nil {
		return nil, err
	}

	summary := report.Summarize(sales, top, names)
	return &summary, nil
}
