package core

import (
	"fmt"
	"strings"
)

// FieldErrors maps field names to human-readable validation messages.
// Validation failures block the mutation but are never raised as panics.
type FieldErrors map[string]string

// Error implements the error interface.
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the order draft before it may be committed. Pricing is
// assumed to have already run; only commit-blocking conditions live here.
func (o *Order) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(o.Code) == "" {
		fe["code"] = "order code is required"
	}
	if o.CustomerID == "" {
		fe["customer_id"] = "customer is required"
	}
	if len(o.Items) == 0 {
		fe["items"] = "at least one item is required"
	}
	if o.Flags.Pending && strings.TrimSpace(o.PendingIssues) == "" {
		fe["pending_issues"] = "a pending-issue description is required while the order is pending"
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// Validate checks customer required fields.
func (c *Customer) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(c.Code) == "" {
		fe["code"] = "code is required"
	}
	if strings.TrimSpace(c.LastName) == "" {
		fe["last_name"] = "last name is required"
	}
	if strings.TrimSpace(c.Address) == "" {
		fe["address"] = "address is required"
	}
	if strings.TrimSpace(c.Mobile) == "" {
		fe["mobile"] = "mobile is required"
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// Validate checks employee required fields.
func (e *Employee) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(e.Code) == "" {
		fe["code"] = "code is required"
	}
	if strings.TrimSpace(e.LastName) == "" {
		fe["last_name"] = "last name is required"
	}
	if strings.TrimSpace(e.Username) == "" {
		fe["username"] = "username is required"
	}
	if e.Role != RoleAdmin && e.Role != RoleEmployee {
		fe["role"] = "role must be ADMIN or EMPLOYEE"
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// Validate checks product required fields. The price must be a positive
// finite number; degradation to 0 is for live drafts, not stored products.
func (p *Product) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(p.Code) == "" {
		fe["code"] = "code is required"
	}
	if strings.TrimSpace(p.Name) == "" {
		fe["name"] = "name is required"
	}
	if SanitizeNumeric(p.Price, 0, Positive) == 0 {
		fe["price"] = "price must be greater than 0"
	}
	if p.CategoryID == "" {
		fe["category_id"] = "category is required"
	}
	if p.UnitID == "" {
		fe["unit_id"] = "unit is required"
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// Validate checks category required fields.
func (c *Category) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(c.Code) == "" {
		fe["code"] = "code is required"
	}
	if strings.TrimSpace(c.Name) == "" {
		fe["name"] = "name is required"
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// Validate checks unit required fields.
func (u *Unit) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(u.Code) == "" {
		fe["code"] = "code is required"
	}
	if strings.TrimSpace(u.Name) == "" {
		fe["name"] = "name is required"
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// Validate checks period required fields and date ordering.
func (p *Period) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(p.Name) == "" {
		fe["name"] = "name is required"
	}
	if !p.EndDate.IsZero() && !p.StartDate.IsZero() && p.EndDate.Before(p.StartDate) {
		fe["end_date"] = "end date must not precede start date"
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}
