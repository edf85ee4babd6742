package service

import (
	"context"
	"fmt"

	"github.com/nurpe/agency-finance/internal/model"
)

type ExcelGenerator interface {
	IncomeStatement(dre model.DREResult) ([]byte, error)
	Metrics(metrics model.Metrics) ([]byte, error)
}

type PDFGenerator interface {
	IncomeStatement(dre model.DREResult) ([]byte, error)
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ExportService renders the income statement and dashboard metrics as files.
type ExportService struct {
	dre     *DREService
	metrics *MetricsService
	excel   ExcelGenerator
	pdf     PDFGenerator
}

func NewExportService(dre *DREService, metrics *MetricsService, excel ExcelGenerator, pdf PDFGenerator) *ExportService {
	return &ExportService{dre: dre, metrics: metrics, excel: excel, pdf: pdf}
}

func (s *ExportService) IncomeStatementXLSX(ctx context.Context, year, month int) (*ExportResult, error) {
	dre, err := s.dre.MonthlyIncomeStatement(ctx, year, month)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.IncomeStatement(*dre)
	if err != nil {
		return nil, fmt.Errorf("render income statement xlsx: %w", err)
	}
	return &ExportResult{
		FileName: fmt.Sprintf("dre_%04d_%02d.xlsx", year, month),
		Content:  content,
	}, nil
}

func (s *ExportService) IncomeStatementPDF(ctx context.Context, year, month int) (*ExportResult, error) {
	dre, err := s.dre.MonthlyIncomeStatement(ctx, year, month)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.IncomeStatement(*dre)
	if err != nil {
		return nil, fmt.Errorf("render income statement pdf: %w", err)
	}
	return &ExportResult{
		FileName: fmt.Sprintf("dre_%04d_%02d.pdf", year, month),
		Content:  content,
	}, nil
}

func (s *ExportService) MetricsXLSX(ctx context.Context, period model.DateRange) (*ExportResult, error) {
	metrics, err := s.metrics.Aggregate(ctx, period)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Metrics(*metrics)
	if err != nil {
		return nil, fmt.Errorf("render metrics xlsx: %w", err)
	}
	return &ExportResult{
		FileName: fmt.Sprintf("metrics_%s_%s.xlsx", period.Start.Format("20060102"), period.End.Format("20060102")),
		Content:  content,
	}, nil
}
