package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/primecut-foods/butchery-api/internal/core"
)

// ExportService renders orders and catalog data as CSV and PDF documents.
// Exports consume stored totals; they never reprice.
type ExportService struct {
	orderRepo    core.OrderRepository
	customerRepo core.CustomerRepository
	periodRepo   core.PeriodRepository
}

// NewExportService creates a new export service
func NewExportService(orderRepo core.OrderRepository, customerRepo core.CustomerRepository, periodRepo core.PeriodRepository) *ExportService {
	return &ExportService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		periodRepo:   periodRepo,
	}
}

// OrdersCSV renders one period's orders as CSV, one row per order
func (s *ExportService) OrdersCSV(ctx context.Context, periodID string) ([]byte, string, error) {
	period, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return nil, "", err
	}

	orders, err := s.orderRepo.GetByPeriod(ctx, periodID, "", 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch orders for export: %w", err)
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	header := []string{"Code", "Customer", "Phone", "Order Date", "Delivery Date", "Status", "Items", "Subtotal", "Discount %", "Total"}
	if err := writer.Write(header); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, order := range orders {
		row := []string{
			order.Code,
			order.CustomerName,
			order.CustomerPhone,
			formatExportDate(order.OrderDate),
			formatExportDate(order.DeliveryDate),
			order.Status,
			strconv.Itoa(len(order.Items)),
			formatAmount(order.Subtotal),
			formatAmount(order.OrderDiscount),
			formatAmount(order.Total),
		}
		if err := writer.Write(row); err != nil {
			return nil, "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	filename := fmt.Sprintf("orders-%s.csv", exportSlug(period.Name))
	return buffer.Bytes(), filename, nil
}

// CustomersCSV renders the customer collection as CSV
func (s *ExportService) CustomersCSV(ctx context.Context) ([]byte, string, error) {
	customers, err := s.customerRepo.GetAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch customers for export: %w", err)
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	header := []string{"Code", "First Name", "Last Name", "Address", "Mobile", "Email"}
	if err := writer.Write(header); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, customer := range customers {
		row := []string{
			customer.Code,
			customer.FirstName,
			customer.LastName,
			customer.Address,
			customer.Mobile,
			customer.Email,
		}
		if err := writer.Write(row); err != nil {
			return nil, "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buffer.Bytes(), "customers.csv", nil
}

// OrderPDF renders one order as a printable document
func (s *ExportService) OrderPDF(ctx context.Context, orderID string) ([]byte, string, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 8, "PrimeCut Butchery", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 7, fmt.Sprintf("Order %s", order.Code), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s", safeExportValue(order.PeriodName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Customer: %s", safeExportValue(order.CustomerName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Address: %s", safeExportValue(order.CustomerAddress)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Phone: %s", safeExportValue(order.CustomerPhone)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Order Date: %s", formatExportDate(order.OrderDate)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Delivery Date: %s", formatExportDate(order.DeliveryDate)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", order.Status), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Items", "1", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	if len(order.Items) == 0 {
		pdf.CellFormat(0, 6, "No items", "", 1, "L", false, 0, "")
	} else {
		for _, item := range order.Items {
			line := fmt.Sprintf(
				"%s %s %s @ %s",
				formatQuantity(item.Quantity),
				safeExportValue(item.Unit),
				safeExportValue(item.ProductName),
				formatAmount(item.UnitPrice),
			)
			if item.Discount > 0 {
				line += fmt.Sprintf(" (-%s%%)", formatAmount(item.Discount))
			}
			line += fmt.Sprintf(" = %s", formatAmount(item.Total))
			pdf.MultiCell(0, 5, line, "", "L", false)
			if strings.TrimSpace(item.Instructions) != "" {
				pdf.MultiCell(0, 5, fmt.Sprintf("  Note: %s", item.Instructions), "", "L", false)
			}
		}
	}
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(95, 7, fmt.Sprintf("Subtotal: %s", formatAmount(order.Subtotal)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Discount: %s%%", formatAmount(order.OrderDiscount)), "1", 1, "L", false, 0, "")
	pdf.CellFormat(190, 7, fmt.Sprintf("Total: %s", formatAmount(order.Total)), "1", 1, "L", false, 0, "")

	if strings.TrimSpace(order.Comments) != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, fmt.Sprintf("Comments: %s", order.Comments), "", "L", false)
	}
	if strings.TrimSpace(order.PendingIssues) != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, fmt.Sprintf("Pending Issues: %s", order.PendingIssues), "", "L", false)
	}

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, "", fmt.Errorf("failed to render PDF: %w", err)
	}

	filename := fmt.Sprintf("order-%s.pdf", exportSlug(order.Code))
	return buffer.Bytes(), filename, nil
}

// PeriodReportPDF renders one period's sales summary and order detail
func (s *ExportService) PeriodReportPDF(ctx context.Context, periodID string) ([]byte, string, error) {
	period, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return nil, "", err
	}

	orders, err := s.orderRepo.GetByPeriod(ctx, periodID, "", 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch report orders: %w", err)
	}

	stats, err := s.orderRepo.StatsByPeriod(ctx, periodID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch period stats: %w", err)
	}

	avgOrderValue := 0.0
	if stats.OrderCount > 0 {
		avgOrderValue = stats.Revenue / float64(stats.OrderCount)
	}

	deliveredCount := 0
	pendingCount := 0
	for _, order := range orders {
		if order.Flags.Delivered {
			deliveredCount++
		}
		if order.Flags.Pending {
			pendingCount++
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 8, "PrimeCut Butchery", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 7, "Period Sales Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s", period.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Range: %s to %s", formatExportDate(period.StartDate), formatExportDate(period.EndDate)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated At: %s", time.Now().Format("02 Jan 2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Summary", "1", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, fmt.Sprintf("Total Sales: %s", formatAmount(stats.Revenue)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Orders: %d", stats.OrderCount), "1", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Delivered: %d | Pending: %d", deliveredCount, pendingCount), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Average Order Value: %s", formatAmount(avgOrderValue)), "1", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Order-Level Detail", "", 1, "L", false, 0, "")

	if len(orders) == 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, "No orders found for this period.", "", 1, "L", false, 0, "")
	} else {
		for i, order := range orders {
			ensureReportPageSpace(pdf, 30)

			pdf.SetFont("Arial", "B", 10)
			headerLine := fmt.Sprintf(
				"%d) %s | %s | %s",
				i+1,
				order.Code,
				order.Status,
				formatExportDate(order.OrderDate),
			)
			pdf.MultiCell(0, 6, headerLine, "", "L", false)

			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, fmt.Sprintf("Customer: %s | Phone: %s", safeExportValue(order.CustomerName), safeExportValue(order.CustomerPhone)), "", "L", false)

			for _, item := range order.Items {
				itemLine := fmt.Sprintf(
					"- %s %s %s @ %s = %s",
					formatQuantity(item.Quantity),
					safeExportValue(item.Unit),
					safeExportValue(item.ProductName),
					formatAmount(item.UnitPrice),
					formatAmount(item.Total),
				)
				pdf.MultiCell(0, 5, itemLine, "", "L", false)
			}

			pdf.MultiCell(0, 5, fmt.Sprintf("Total: %s", formatAmount(order.Total)), "", "L", false)
			pdf.CellFormat(0, 1, "", "B", 1, "L", false, 0, "")
			pdf.Ln(1)
		}
	}

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, "", fmt.Errorf("failed to render PDF: %w", err)
	}

	filename := fmt.Sprintf("period-report-%s.pdf", exportSlug(period.Name))
	return buffer.Bytes(), filename, nil
}

func ensureReportPageSpace(pdf *gofpdf.Fpdf, minSpace float64) {
	_, pageHeight := pdf.GetPageSize()
	leftMargin, _, rightMargin, bottomMargin := pdf.GetMargins()
	usableBottom := pageHeight - bottomMargin
	if pdf.GetY()+minSpace > usableBottom {
		pdf.AddPage()
		pdf.SetX(leftMargin)
		pdf.SetRightMargin(rightMargin)
	}
}

func safeExportValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatExportDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("02 Jan 2006")
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

func formatQuantity(quantity float64) string {
	return strconv.FormatFloat(quantity, 'f', -1, 64)
}

func exportSlug(value string) string {
	slug := strings.ToLower(strings.TrimSpace(value))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "/", "-")
	return slug
}
