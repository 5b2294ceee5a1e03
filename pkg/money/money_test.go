package money_test

import (
	"testing"

	"boutique/pkg/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	cases := map[float64]int64{
		19.99:  1999,
		0.1:    10,
		10:     1000,
		0.005:  1,
		2.675:  268,
		1.0049: 100,
		0:      0,
	}
	for amount, want := range cases {
		assert.Equal(t, want, money.ToMinorUnits(amount), "amount %v", amount)
	}
}

func TestFromMinorUnits(t *testing.T) {
	assert.Equal(t, 19.99, money.FromMinorUnits(1999))
	assert.Equal(t, 0.0, money.FromMinorUnits(0))
}

func TestLineTotalAndSum(t *testing.T) {
	total := money.Sum(money.LineTotal(0.1, 3), money.LineTotal(19.99, 2))
	assert.True(t, total.Equal(decimal.RequireFromString("40.28")))
	assert.Equal(t, 40.28, money.Float(total))
	assert.True(t, money.Sum().IsZero())
}

func TestLineTotalMatchesChargedAmount(t *testing.T) {
	cases := []struct {
		price    float64
		quantity int
	}{
		{0.125, 3},
		{2.675, 1},
		{0.005, 7},
		{19.994, 4},
	}
	for _, tc := range cases {
		charged := money.ToMinorUnits(tc.price) * int64(tc.quantity)
		line := money.LineTotal(tc.price, tc.quantity)
		assert.True(t, line.Equal(decimal.New(charged, -2)), "price %v × %d: got %s", tc.price, tc.quantity, line)
	}
	assert.True(t, money.LineTotal(0.125, 3).Equal(decimal.RequireFromString("0.39")))
}
