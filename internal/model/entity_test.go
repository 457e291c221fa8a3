package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTotalBalance(t *testing.T) {
	accounts := []Account{
		{CurrentBalance: decimal.RequireFromString("0.10")},
		{CurrentBalance: decimal.RequireFromString("0.20")},
		{},
	}
	if got := TotalBalance(accounts); !got.Equal(decimal.RequireFromString("0.30")) {
		t.Errorf("TotalBalance = %s, want 0.30", got)
	}
	if got := TotalBalance(nil); !got.IsZero() {
		t.Errorf("TotalBalance(nil) = %s, want 0", got)
	}

	data := ScenarioData{Accounts: accounts}
	if !data.CurrentBalance().Equal(TotalBalance(accounts)) {
		t.Errorf("CurrentBalance = %s, want %s", data.CurrentBalance(), TotalBalance(accounts))
	}
}
