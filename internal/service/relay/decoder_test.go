package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "WalletScope/pkg/http"
)

func newTestDecoder(t *testing.T, handler http.HandlerFunc) *Decoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewDecoder(apphttp.NewClient(), Config{BaseURL: srv.URL})
}

func TestDecodeBridgeRequest(t *testing.T) {
	d := newTestDecoder(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/requests/v2" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("hash") != "0xdeadbeef" {
			t.Errorf("hash = %s", r.URL.Query().Get("hash"))
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"requests": []map[string]interface{}{{
				"id":     "req-1",
				"status": "success",
				"data": map[string]interface{}{
					"inTxs": []map[string]interface{}{
						{"hash": "0xORIGIN", "chainId": 42161},
					},
					"metadata": map[string]interface{}{
						"sender":     "0xSENDER",
						"currencyIn": map[string]interface{}{"amountUsd": "2500.75"},
					},
				},
			}},
		})
	})

	info, err := d.Decode(context.Background(), "0xDEADBEEF")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info == nil {
		t.Fatal("info = nil")
	}
	if info.OriginChainID != 42161 || info.OriginChainName != "Arbitrum" {
		t.Errorf("chain = %d %s", info.OriginChainID, info.OriginChainName)
	}
	if info.OriginTxHash != "0xorigin" || info.OriginAddress != "0xsender" {
		t.Errorf("origin fields not lowercased: %+v", info)
	}
	if info.Amount != 2500.75 || info.Status != "success" {
		t.Errorf("amount/status = %v %s", info.Amount, info.Status)
	}
}

func TestDecodeUnknownTransfer(t *testing.T) {
	d := newTestDecoder(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"requests": []interface{}{}})
	})

	info, err := d.Decode(context.Background(), "0xffff")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info != nil {
		t.Errorf("unmatched hash should decode to nil, got %+v", info)
	}
}

func TestDecodeUpstreamError(t *testing.T) {
	d := newTestDecoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := d.Decode(context.Background(), "0xffff"); err == nil {
		t.Fatal("expected error")
	}
}

func TestChainName(t *testing.T) {
	if got := ChainName(8453); got != "Base" {
		t.Errorf("ChainName(8453) = %s", got)
	}
	if got := ChainName(999999); got != "chain 999999" {
		t.Errorf("ChainName(999999) = %s", got)
	}
}
