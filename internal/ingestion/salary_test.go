package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSalary(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"empty", "", 0},
		{"no digits", "A convenir", 0},
		{"dot separators", "$1.500.000", 1500000},
		{"comma separators", "$1,500,000", 1500000},
		{"range takes largest", "$800.000 - $1.200.000 líquidos", 1200000},
		{"trailing currency", "950000 $", 950000},
		{"bare number", "Sueldo 700000", 700000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSalary(tt.raw))
		})
	}
}
