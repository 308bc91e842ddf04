package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTotal_PrefersGrandTotalTier(t *testing.T) {
	e := New(DefaultPolicy())
	lines := []string{
		"Sub Total: 100.00",
		"Grand Total: 118.00",
	}
	assert.Equal(t, "₹118.00", e.resolveTotal(lines))
}

func TestResolveTotal_AmountOnFollowingLine(t *testing.T) {
	e := New(DefaultPolicy())
	lines := []string{
		"Grand Total",
		"118.00",
	}
	assert.Equal(t, "₹118.00", e.resolveTotal(lines))
}

func TestResolveTotal_LargestWithinSameTier(t *testing.T) {
	e := New(DefaultPolicy())
	lines := []string{
		"Total: 90.00",
		"Total: 250.00",
	}
	assert.Equal(t, "₹250.00", e.resolveTotal(lines))
}

func TestResolveTotal_UnlabeledFallback(t *testing.T) {
	e := New(DefaultPolicy())
	lines := []string{
		"Payment received",
		"₹ 1,500.00 via transfer",
		"reference 16-11-2024",
		"paid 2,000 cash",
	}
	assert.Equal(t, "₹2000.00", e.resolveTotal(lines))
}

func TestResolveTotal_NothingFound(t *testing.T) {
	e := New(DefaultPolicy())
	assert.Equal(t, "0", e.resolveTotal([]string{"thanks for your business"}))
}

func TestExtractAmounts_PlainRejectsDateLikeLines(t *testing.T) {
	assert.Empty(t, extractAmounts("16-11-2024", true))
	assert.Empty(t, extractAmounts("ref 12/345", true))
	assert.Equal(t, []float64{118}, extractAmounts("amount 118", true))
}

func TestReconcileTotal_OverridesWhenTaxesExceedTotal(t *testing.T) {
	e := New(DefaultPolicy())
	lines := []string{
		"Sub Total: 100.00",
		"CGST @ 9%: 9.00",
		"SGST @ 9%: 9.00",
		"Total: 100.00",
	}
	assert.Equal(t, "₹118.00", e.reconcileTotal(lines, "₹100.00"))
}

func TestReconcileTotal_KeepsTotalWithinMargin(t *testing.T) {
	e := New(DefaultPolicy())
	lines := []string{
		"Sub Total: 100.00",
		"CGST @ 9%: 9.00",
		"SGST @ 9%: 9.00",
	}
	assert.Equal(t, "₹118.00", e.reconcileTotal(lines, "₹118.00"))
}

func TestReconcileTotal_NoSubtotalLeavesTotalAlone(t *testing.T) {
	e := New(DefaultPolicy())
	lines := []string{
		"CGST @ 9%: 9.00",
		"Total: 118.00",
	}
	assert.Equal(t, "₹118.00", e.reconcileTotal(lines, "₹118.00"))
}

func TestReconcileTotal_ZeroTaxesLeaveTotalAlone(t *testing.T) {
	e := New(DefaultPolicy())
	lines := []string{
		"Sub Total: 100.00",
		"CGST: 0.00",
	}
	assert.Equal(t, "₹100.00", e.reconcileTotal(lines, "₹100.00"))
}

func TestReconcileTotal_FillsMissingTotal(t *testing.T) {
	e := New(DefaultPolicy())
	lines := []string{
		"Sub Total: 200.00",
		"IGST @ 18%: 36.00",
	}
	assert.Equal(t, "₹236.00", e.reconcileTotal(lines, "0"))
}
