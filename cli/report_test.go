package cli

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/presto8/ledger-mode/ledger"
	"github.com/shopspring/decimal"
)

func TestBuildConfigMapsFlagsToConfig(t *testing.T) {
	root := ledger.NewTree()
	cmd := &ReportCmd{
		Predicate: `account =~ "Food"`,
		Head:      5,
		ByPayee:   true,
	}

	cfg, err := cmd.buildConfig(root)
	assert.NoError(t, err)
	assert.Equal(t, `account =~ "Food"`, cfg.Predicate)
	assert.Equal(t, 5, cfg.HeadEntries)
	assert.True(t, cfg.ByPayee)
}

func TestBuildConfigParsesReconcileBalance(t *testing.T) {
	root := ledger.NewTree()
	cmd := &ReportCmd{Reconcile: "123.45 USD"}

	cfg, err := cmd.buildConfig(root)
	assert.NoError(t, err)
	assert.True(t, cfg.ReconcileBalance.Equal(ledger.AmountValue(ledger.NewAmount(decimal.NewFromFloat(123.45), "USD"))))
}

func TestBuildConfigRejectsMalformedReconcile(t *testing.T) {
	root := ledger.NewTree()
	cmd := &ReportCmd{Reconcile: "not-an-amount"}

	_, err := cmd.buildConfig(root)
	assert.Error(t, err)
}

func TestBuildConfigParsesReconcileDate(t *testing.T) {
	root := ledger.NewTree()
	cmd := &ReportCmd{Reconcile: "10 USD", ReconcileAt: "2026-03-01"}

	cfg, err := cmd.buildConfig(root)
	assert.NoError(t, err)
	assert.True(t, cfg.ReconcileDate != nil)
	assert.Equal(t, "2026-03-01", cfg.ReconcileDate.Format("2006-01-02"))
}
