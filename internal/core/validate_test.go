package core_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/primecut-foods/butchery-api/internal/core"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return parsed
}

func validOrder() *core.Order {
	return &core.Order{
		Code:       "ORD_001",
		CustomerID: "c-1",
		Items:      []core.OrderItem{{ProductName: "Ribeye", Quantity: 1, UnitPrice: 20, Total: 20}},
	}
}

func TestOrderValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(o *core.Order)
		wantField string
	}{
		{"valid order", func(o *core.Order) {}, ""},
		{"missing code", func(o *core.Order) { o.Code = " " }, "code"},
		{"missing customer", func(o *core.Order) { o.CustomerID = "" }, "customer_id"},
		{"no items", func(o *core.Order) { o.Items = nil }, "items"},
		{
			"pending without issue text",
			func(o *core.Order) { o.Flags.Pending = true; o.PendingIssues = "  " },
			"pending_issues",
		},
		{
			"pending with issue text is fine",
			func(o *core.Order) { o.Flags.Pending = true; o.PendingIssues = "out of sausage casings" },
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := validOrder()
			tt.mutate(order)
			err := order.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var fe core.FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldErrors, got %v", err)
			}
			if _, ok := fe[tt.wantField]; !ok {
				t.Errorf("expected error on field %q, got %v", tt.wantField, fe)
			}
		})
	}
}

func TestCustomerValidate(t *testing.T) {
	customer := &core.Customer{Code: "CUST_001", LastName: "Ngatia", Address: "12 Market Rd", Mobile: "0712000000"}
	if err := customer.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	empty := &core.Customer{}
	err := empty.Validate()
	var fe core.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	for _, field := range []string{"code", "last_name", "address", "mobile"} {
		if _, ok := fe[field]; !ok {
			t.Errorf("expected error on field %q", field)
		}
	}
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		wantPrice bool
	}{
		{"positive price", 12.5, false},
		{"zero price", 0, true},
		{"negative price", -4, true},
		{"NaN price", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := &core.Product{Code: "PRD_001", Name: "Ribeye", Price: tt.price, CategoryID: "cat-1", UnitID: "unit-1"}
			err := product.Validate()

			if !tt.wantPrice {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var fe core.FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldErrors, got %v", err)
			}
			if _, ok := fe["price"]; !ok {
				t.Errorf("expected error on price, got %v", fe)
			}
		})
	}
}

func TestPeriodValidate(t *testing.T) {
	start := mustDate(t, "2025-03-01")
	end := mustDate(t, "2025-04-20")

	period := &core.Period{Name: "Easter 2025", StartDate: start, EndDate: end}
	if err := period.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	reversed := &core.Period{Name: "Easter 2025", StartDate: end, EndDate: start}
	err := reversed.Validate()
	var fe core.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if _, ok := fe["end_date"]; !ok {
		t.Errorf("expected error on end_date, got %v", fe)
	}

	unnamed := &core.Period{}
	if err := unnamed.Validate(); err == nil {
		t.Error("expected error for unnamed period")
	}
}
