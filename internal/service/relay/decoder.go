package relay

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"WalletScope/internal/domain/models"
	apphttp "WalletScope/pkg/http"
)

// Cross-chain funding arrives on Polygon as a transfer from the relay
// executor; the bridge API's request record is the only place the true
// source chain survives.

var chainNames = map[int64]string{
	1:        "Ethereum",
	10:       "Optimism",
	56:       "BNB Chain",
	137:      "Polygon",
	324:      "zkSync Era",
	8453:     "Base",
	42161:    "Arbitrum",
	43114:    "Avalanche",
	59144:    "Linea",
	534352:   "Scroll",
	81457:    "Blast",
	7777777:  "Zora",
	11155111: "Sepolia",
}

// Config holds Relay API settings.
type Config struct {
	BaseURL string
}

// Decoder resolves the cross-chain origin of bridge deposits through the
// Relay requests API. It implements repository.BridgeDecoder.
type Decoder struct {
	http *apphttp.Client
	cfg  Config
}

func NewDecoder(httpClient *apphttp.Client, cfg Config) *Decoder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.relay.link"
	}
	return &Decoder{http: httpClient, cfg: cfg}
}

type requestsResponse struct {
	Requests []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Data   struct {
			InTxs []struct {
				Hash    string `json:"hash"`
				ChainID int64  `json:"chainId"`
			} `json:"inTxs"`
			Metadata struct {
				CurrencyIn struct {
					AmountUsd string `json:"amountUsd"`
				} `json:"currencyIn"`
				Sender string `json:"sender"`
			} `json:"metadata"`
		} `json:"data"`
	} `json:"requests"`
}

// Decode looks up the bridge request that produced the given destination
// transaction. A transfer with no matching request decodes to nil without
// error: not every bridge deposit goes through this relay.
func (d *Decoder) Decode(ctx context.Context, txHash string) (*models.OriginInfo, error) {
	var resp requestsResponse
	err := d.http.SendAndParse(ctx, &apphttp.RequestOptions{
		Method: apphttp.MethodGet,
		URL:    d.cfg.BaseURL + "/requests/v2",
		QueryParams: map[string][]string{
			"hash": {strings.ToLower(txHash)},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("relay requests: %w", err)
	}
	if len(resp.Requests) == 0 {
		return nil, nil
	}

	req := resp.Requests[0]
	if len(req.Data.InTxs) == 0 {
		return nil, nil
	}
	in := req.Data.InTxs[0]

	info := &models.OriginInfo{
		OriginChainID:   in.ChainID,
		OriginChainName: ChainName(in.ChainID),
		OriginAddress:   strings.ToLower(req.Data.Metadata.Sender),
		OriginTxHash:    strings.ToLower(in.Hash),
		Status:          req.Status,
	}
	if usd, err := strconv.ParseFloat(req.Data.Metadata.CurrencyIn.AmountUsd, 64); err == nil {
		info.Amount = usd
	}
	return info, nil
}

// ChainName returns the human name for a chain ID, or "chain <id>" when
// unknown.
func ChainName(id int64) string {
	if name, ok := chainNames[id]; ok {
		return name
	}
	return fmt.Sprintf("chain %d", id)
}
