package http

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/primecut-foods/butchery-api/internal/events"
	"github.com/primecut-foods/butchery-api/internal/service"
)

// DashboardHandler handles dashboard stats, exports and the SSE stream
type DashboardHandler struct {
	periodService *service.PeriodService
	orderService  *service.OrderService
	exportService *service.ExportService
	eventBus      *events.EventBus
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	periodService *service.PeriodService,
	orderService *service.OrderService,
	exportService *service.ExportService,
	eventBus *events.EventBus,
) *DashboardHandler {
	return &DashboardHandler{
		periodService: periodService,
		orderService:  orderService,
		exportService: exportService,
		eventBus:      eventBus,
	}
}

// GetActiveStats retrieves order aggregates for the active period
// GET /api/dashboard/stats
func (h *DashboardHandler) GetActiveStats(c *fiber.Ctx) error {
	stats, err := h.periodService.ActiveStats(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// GetPeriodStats retrieves order aggregates for one period
// GET /api/dashboard/stats/:period_id
func (h *DashboardHandler) GetPeriodStats(c *fiber.Ctx) error {
	stats, err := h.periodService.Stats(c.Context(), c.Params("period_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// GetDeliveriesDue lists active-period orders due in a date window
// GET /api/dashboard/deliveries?from=2025-04-18&to=2025-04-20
func (h *DashboardHandler) GetDeliveriesDue(c *fiber.Ctx) error {
	from, err := time.Parse("2006-01-02", c.Query("from", time.Now().Format("2006-01-02")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid from date, expected YYYY-MM-DD",
		})
	}
	to, err := time.Parse("2006-01-02", c.Query("to", from.AddDate(0, 0, 7).Format("2006-01-02")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid to date, expected YYYY-MM-DD",
		})
	}

	orders, err := h.orderService.DeliveriesDue(c.Context(), from, to.Add(24*time.Hour-time.Second))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

// ExportOrdersCSV downloads a period's orders as CSV
// GET /api/export/periods/:period_id/orders.csv
func (h *DashboardHandler) ExportOrdersCSV(c *fiber.Ctx) error {
	data, filename, err := h.exportService.OrdersCSV(c.Context(), c.Params("period_id"))
	if err != nil {
		return fail(c, err)
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// ExportCustomersCSV downloads the customer list as CSV
// GET /api/export/customers.csv
func (h *DashboardHandler) ExportCustomersCSV(c *fiber.Ctx) error {
	data, filename, err := h.exportService.CustomersCSV(c.Context())
	if err != nil {
		return fail(c, err)
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// ExportOrderPDF downloads one order as a printable PDF
// GET /api/export/orders/:id.pdf
func (h *DashboardHandler) ExportOrderPDF(c *fiber.Ctx) error {
	data, filename, err := h.exportService.OrderPDF(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// ExportPeriodReportPDF downloads a period sales report as PDF
// GET /api/export/periods/:period_id/report.pdf
func (h *DashboardHandler) ExportPeriodReportPDF(c *fiber.Ctx) error {
	data, filename, err := h.exportService.PeriodReportPDF(c.Context(), c.Params("period_id"))
	if err != nil {
		return fail(c, err)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// SSEEvents handles Server-Sent Events for real-time updates
// GET /api/dashboard/events
func (h *DashboardHandler) SSEEvents(c *fiber.Ctx) error {
	// Set headers for SSE
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	bus := h.eventBus

	// Stream events. fasthttp runs the body stream writer after this
	// handler returns, so the subscription is created (and torn down)
	// inside the writer itself; a handler-scoped context would already
	// be cancelled by the time streaming starts.
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		subscriberID := uuid.New().String()
		eventChan := bus.Subscribe(ctx, subscriberID)

		// Initial connection message
		if _, err := w.WriteString("event: connected\ndata: {\"message\":\"connected\"}\n\n"); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}

		// Send heartbeat every 30 seconds; a failed write is how a
		// dropped client is detected
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-eventChan:
				if !ok {
					return
				}

				sseData, err := events.FormatSSE(event)
				if err != nil {
					fmt.Printf("Error formatting SSE: %v\n", err)
					continue
				}

				if _, err := w.Write([]byte(sseData)); err != nil {
					return
				}

				if err := w.Flush(); err != nil {
					return
				}

			case <-ticker.C:
				// Send heartbeat
				if _, err := w.Write([]byte(": heartbeat\n\n")); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}
