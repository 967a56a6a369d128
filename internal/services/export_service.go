package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/texora/texora-core/internal/models"
	"github.com/texora/texora-core/internal/repository"
	"github.com/xuri/excelize/v2"
)

// exportPageSize caps how many audit entries one export pulls
const exportPageSize = 1000

// ExportService renders audit trails and order summaries into downloadable
// files. The web layer serves the bytes; nothing here touches transport.
type ExportService struct {
	auditSvc *AuditService
}

// NewExportService creates a new export service
func NewExportService(auditSvc *AuditService) *ExportService {
	return &ExportService{auditSvc: auditSvc}
}

// AuditTrailCSV exports a resource's activity log as CSV, newest first
func (s *ExportService) AuditTrailCSV(ctx context.Context, resourceType, resourceID string) ([]byte, string, error) {
	entries, _, err := s.fetchTrail(ctx, resourceType, resourceID)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Timestamp", "Actor", "Role", "Action", "Severity", "Success", "Changes"})
	for _, entry := range entries {
		_ = writer.Write([]string{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.ActorName,
			entry.ActorRole,
			entry.Action,
			entry.Severity,
			fmt.Sprintf("%t", entry.Success),
			strings.Join(entry.Summary, "; "),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("audit_trail_%s_%s_%s.csv", strings.ToLower(resourceType), resourceID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// AuditTrailXLSX exports a resource's activity log as a spreadsheet
func (s *ExportService) AuditTrailXLSX(ctx context.Context, resourceType, resourceID string) ([]byte, string, error) {
	entries, _, err := s.fetchTrail(ctx, resourceType, resourceID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Audit Trail"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Timestamp", "Actor", "Role", "Action", "Severity", "Success", "Changes"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, entry := range entries {
		values := []any{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.ActorName,
			entry.ActorRole,
			entry.Action,
			entry.Severity,
			entry.Success,
			strings.Join(entry.Summary, "; "),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("audit_trail_%s_%s_%s.xlsx", strings.ToLower(resourceType), resourceID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// OrderSummaryPDF renders a one-page order summary with its line items
func (s *ExportService) OrderSummaryPDF(order *models.Order) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Order %s", order.OrderNumber))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 10, "Party:")
	pdf.Cell(40, 10, order.Party.Name)
	pdf.Ln(6)

	pdf.Cell(60, 10, "Status:")
	pdf.Cell(40, 10, order.Status)
	pdf.Ln(6)

	pdf.Cell(60, 10, "Order Date:")
	pdf.Cell(40, 10, order.OrderDate.Format("Jan 2, 2006"))
	pdf.Ln(6)

	if order.DeliveryDate != nil {
		pdf.Cell(60, 10, "Delivery Date:")
		pdf.Cell(40, 10, order.DeliveryDate.Format("Jan 2, 2006"))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Items")
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(15, 8, "#")
	pdf.Cell(60, 8, "Quality")
	pdf.Cell(30, 8, "Quantity")
	pdf.Cell(20, 8, "Unit")
	pdf.Cell(30, 8, "Rate")
	pdf.Cell(30, 8, "Amount")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for i, item := range order.Items {
		pdf.Cell(15, 8, fmt.Sprintf("%d", i+1))
		pdf.Cell(60, 8, item.Quality.Name)
		pdf.Cell(30, 8, fmt.Sprintf("%.2f", item.Quantity))
		pdf.Cell(20, 8, item.Unit)
		pdf.Cell(30, 8, formatAmount(item.Rate))
		pdf.Cell(30, 8, formatAmount(item.Amount))
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(125, 8, "")
	pdf.Cell(30, 8, "Total:")
	pdf.Cell(30, 8, formatAmount(order.TotalAmount))

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("order_%s.pdf", order.OrderNumber)
	return buf.Bytes(), filename, nil
}

func (s *ExportService) fetchTrail(ctx context.Context, resourceType, resourceID string) ([]models.AuditLog, int64, error) {
	query := repository.NewListQuery()
	query.PerPage = exportPageSize
	return s.auditSvc.ListByResource(ctx, resourceType, resourceID, query)
}

func formatAmount(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
