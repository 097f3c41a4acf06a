package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrazilianDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.234,56", "1234.56"},
		{"-50,00", "-50.00"},
		{"R$ 1.234,56", "1234.56"},
		{"0,00", "0.00"},
		{"1.000.000,99", "1000000.99"},
		{"150", "150.00"},
	}
	for _, tt := range tests {
		got, err := ParseBrazilianDecimal(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got.StringFixed(2), "input %q", tt.input)
	}
}

func TestParseBrazilianDecimal_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "-", "R$"} {
		_, err := ParseBrazilianDecimal(input)
		assert.Error(t, err, "input %q", input)
	}
}
