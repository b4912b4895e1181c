package decimalx

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMustFromString(t *testing.T) {
	assert.True(t, MustFromString("2.5").Equal(decimal.NewFromFloat(2.5)))
	assert.True(t, MustFromString("-2").Equal(decimal.NewFromInt(-2)))

	assert.Panics(t, func() {
		MustFromString("not a number")
	})
}

func TestMean(t *testing.T) {
	testCases := []struct {
		name string
		ds   []decimal.Decimal
		want decimal.Decimal
	}{
		{
			name: "empty",
			ds:   nil,
			want: decimal.Zero,
		},
		{
			name: "simple",
			ds: []decimal.Decimal{
				decimal.NewFromInt(1),
				decimal.NewFromInt(2),
				decimal.NewFromInt(3),
			},
			want: decimal.NewFromInt(2),
		},
		{
			name: "big num",
			ds: []decimal.Decimal{
				decimal.NewFromInt(1000),
				decimal.NewFromInt(3000),
			},
			want: decimal.NewFromInt(2000),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, Mean(tc.ds).Equal(tc.want))
		})
	}
}
