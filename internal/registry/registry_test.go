package registry

import (
	"testing"

	"WalletScope/internal/domain/models"
)

func TestClassifyCaseInsensitive(t *testing.T) {
	r := New(nil)

	lower := r.Classify("0x4bfb41d5b3570defd03c39a9a4d8de6bd8b8982e")
	upper := r.Classify("0x4BFB41D5B3570DEFD03C39A9A4D8DE6BD8B8982E")

	if lower.Category != models.CategoryProtocol {
		t.Fatalf("category = %s, want protocol", lower.Category)
	}
	if upper != lower {
		t.Fatalf("mixed-case lookup diverged: %+v vs %+v", upper, lower)
	}
	if lower.Label != "CTF Exchange" {
		t.Errorf("label = %q", lower.Label)
	}
}

func TestClassifyUnknownFallback(t *testing.T) {
	r := New(nil)

	info := r.Classify("0xDEAD00000000000000000000000000000000beef")
	if info.Category != models.CategoryUnknown {
		t.Fatalf("category = %s, want unknown", info.Category)
	}
	if info.Address != "0xdead00000000000000000000000000000000beef" {
		t.Errorf("address not normalized: %s", info.Address)
	}
	if info.Label != "" {
		t.Errorf("unexpected label %q", info.Label)
	}
}

func TestExtraEntriesOverrideBuiltin(t *testing.T) {
	r := New([]Entry{
		{Address: "0xF977814e90dA44bFA03b6295A0616a897441aceC", Label: "Binance 8", Category: models.CategoryExchange},
		{Address: "0xabc0000000000000000000000000000000000001", Label: "Known Trader"},
	})

	if got := r.Label("0xf977814e90da44bfa03b6295a0616a897441acec"); got != "Binance 8" {
		t.Errorf("override label = %q", got)
	}
	// Entries without a category default to entity.
	if got := r.Classify("0xABC0000000000000000000000000000000000001").Category; got != models.CategoryEntity {
		t.Errorf("default category = %s, want entity", got)
	}
}

func TestCategoryHelpers(t *testing.T) {
	r := New(nil)

	if !r.IsBridge("0x0000000000a39bb272e79075ade125fd351887ac") {
		t.Error("relay depositor should be a bridge")
	}
	if !r.IsProtocol("0x2791bca1f2de4661ed88a30c99a7a9449aa84174") {
		t.Error("USDC.e contract should be protocol")
	}
	if r.IsBridge("0xf977814e90da44bfa03b6295a0616a897441acec") {
		t.Error("exchange wallet misreported as bridge")
	}
}

func TestTerminalCategories(t *testing.T) {
	cases := []struct {
		cat  models.AddressCategory
		want bool
	}{
		{models.CategoryExchange, true},
		{models.CategoryBridge, true},
		{models.CategorySwap, true},
		{models.CategoryProtocol, true},
		{models.CategoryEntity, false},
		{models.CategoryFreshWallet, false},
		{models.CategoryUnknown, false},
	}
	for _, c := range cases {
		if got := c.cat.Terminal(); got != c.want {
			t.Errorf("%s.Terminal() = %v, want %v", c.cat, got, c.want)
		}
	}
}
