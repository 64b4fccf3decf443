package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"washpos/pkg/libpos"
)

func TestReceipt(t *testing.T) {
	order := &libpos.Order{
		Reference: "WP-0042",
		Customer:  "Bob",
		Status:    libpos.OrderReady,
		Total:     2000,
		Lines: []libpos.OrderLine{
			{ServiceName: "Wash & Fold", Quantity: 1.5, UnitPrice: 800, Amount: 1200},
			{ServiceName: "Ironing", Quantity: 4, UnitPrice: 200, Amount: 800},
		},
	}

	receipt := Receipt(order)

	assert.Contains(t, receipt, "WP-0042")
	assert.Contains(t, receipt, "Wash & Fold x1.5")
	assert.Contains(t, receipt, "12.00")
	assert.Contains(t, receipt, "TOTAL")
	assert.Contains(t, receipt, "20.00")
	assert.True(t, strings.HasSuffix(receipt, "washpos://order/WP-0042\n"))

	for _, line := range strings.Split(strings.TrimRight(receipt, "\n"), "\n") {
		assert.LessOrEqual(t, len(line), receiptWidth, line)
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "0.00", money(0))
	assert.Equal(t, "0.05", money(5))
	assert.Equal(t, "15.00", money(1500))
	assert.Equal(t, "12.34", money(1234))
	assert.Equal(t, "-3.10", money(-310))
}
