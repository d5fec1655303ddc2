package core_test

import (
	"testing"

	"github.com/primecut-foods/butchery-api/internal/core"
)

func TestNextCode(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		prefix   string
		want     string
	}{
		{"max plus one, not count plus one", []string{"CUST_001", "CUST_003"}, "CUST_", "CUST_004"},
		{"empty collection starts at one", nil, "CUST_", "CUST_001"},
		{"non-conforming suffix ignored", []string{"CUST_abc"}, "CUST_", "CUST_001"},
		{"mixed conforming and junk", []string{"CUST_002", "CUST_xyz", "CUST_010"}, "CUST_", "CUST_011"},
		{"other prefixes ignored", []string{"PRD_050", "CUST_002"}, "CUST_", "CUST_003"},
		{"rolls past three digits", []string{"UNIT_999"}, "UNIT_", "UNIT_1000"},
		{"negative suffix ignored", []string{"EMP_-4"}, "EMP_", "EMP_001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.NextCode(tt.existing, tt.prefix); got != tt.want {
				t.Errorf("NextCode(%v, %q) = %q, want %q", tt.existing, tt.prefix, got, tt.want)
			}
		})
	}
}
