package etherscan

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"WalletScope/internal/domain/models"
	"WalletScope/internal/service/ratelimit"
	apphttp "WalletScope/pkg/http"
	"WalletScope/pkg/logger"
)

// Tracked stablecoin contracts on Polygon. Funding provenance follows the
// tokens the platform settles in, so both the native and the bridged issue
// are queried.
var defaultTokens = []Token{
	{Address: "0x3c499c542cef5e3811e1192ce70d8cc03d5c3359", Symbol: "USDC"},
	{Address: "0x2791bca1f2de4661ed88a30c99a7a9449aa84174", Symbol: "USDC.e"},
}

// Token is one ERC-20 contract whose transfers the ledger reads.
type Token struct {
	Address string
	Symbol  string
}

// Config holds Etherscan client settings.
type Config struct {
	BaseURL        string
	APIKey         string
	ChainID        int
	PageSize       int
	RequestsPerSec float64
	Tokens         []Token
}

// Client reads token transfer history through the Etherscan V2 API. It
// implements repository.Ledger.
type Client struct {
	http    *apphttp.Client
	limiter *ratelimit.Limiter
	log     *logger.Logger
	cfg     Config
}

func NewClient(httpClient *apphttp.Client, limiter *ratelimit.Limiter, log *logger.Logger, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.etherscan.io/v2/api"
	}
	if cfg.ChainID == 0 {
		cfg.ChainID = 137
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 4
	}
	if len(cfg.Tokens) == 0 {
		cfg.Tokens = defaultTokens
	}
	return &Client{http: httpClient, limiter: limiter, log: log, cfg: cfg}
}

// IncomingTransfers returns transfers received by address, oldest first.
func (c *Client) IncomingTransfers(ctx context.Context, address string) ([]models.Transfer, error) {
	return c.transfers(ctx, address, func(t models.Transfer) bool {
		return t.To == strings.ToLower(address)
	})
}

// OutgoingTransfers returns transfers sent by address, oldest first.
func (c *Client) OutgoingTransfers(ctx context.Context, address string) ([]models.Transfer, error) {
	return c.transfers(ctx, address, func(t models.Transfer) bool {
		return t.From == strings.ToLower(address)
	})
}

func (c *Client) transfers(ctx context.Context, address string, keep func(models.Transfer) bool) ([]models.Transfer, error) {
	var all []models.Transfer
	for _, token := range c.cfg.Tokens {
		rows, err := c.tokenTx(ctx, address, token)
		if err != nil {
			return nil, fmt.Errorf("tokentx %s: %w", token.Symbol, err)
		}
		for _, t := range rows {
			if keep(t) {
				all = append(all, t)
			}
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.Before(all[j].Timestamp)
	})
	return all, nil
}

type tokenTxResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  []struct {
		Hash         string `json:"hash"`
		From         string `json:"from"`
		To           string `json:"to"`
		Value        string `json:"value"`
		TokenSymbol  string `json:"tokenSymbol"`
		TokenDecimal string `json:"tokenDecimal"`
		TimeStamp    string `json:"timeStamp"`
		BlockNumber  string `json:"blockNumber"`
	} `json:"result"`
}

func (c *Client) tokenTx(ctx context.Context, address string, token Token) ([]models.Transfer, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, "etherscan", c.cfg.RequestsPerSec, c.cfg.RequestsPerSec); err != nil {
			return nil, err
		}
	}

	var resp tokenTxResponse
	err := c.http.SendAndParse(ctx, &apphttp.RequestOptions{
		Method: apphttp.MethodGet,
		URL:    c.cfg.BaseURL,
		QueryParams: map[string][]string{
			"chainid":         {strconv.Itoa(c.cfg.ChainID)},
			"module":          {"account"},
			"action":          {"tokentx"},
			"contractaddress": {token.Address},
			"address":         {strings.ToLower(address)},
			"page":            {"1"},
			"offset":          {strconv.Itoa(c.cfg.PageSize)},
			"sort":            {"asc"},
			"apikey":          {c.cfg.APIKey},
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	// Status "0" with an empty result means no history, not a failure.
	if resp.Status != "1" {
		if len(resp.Result) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("etherscan: %s", resp.Message)
	}

	transfers := make([]models.Transfer, 0, len(resp.Result))
	for _, row := range resp.Result {
		amount, err := parseAmount(row.Value, row.TokenDecimal)
		if err != nil {
			if c.log != nil {
				c.log.Warn("skipping unparsable transfer",
					logger.String("hash", row.Hash), logger.Error(err))
			}
			continue
		}
		symbol := row.TokenSymbol
		if symbol == "" {
			symbol = token.Symbol
		}
		block, _ := strconv.ParseInt(row.BlockNumber, 10, 64)
		transfers = append(transfers, models.Transfer{
			TxHash:      strings.ToLower(row.Hash),
			From:        strings.ToLower(row.From),
			To:          strings.ToLower(row.To),
			Amount:      amount,
			TokenSymbol: symbol,
			Timestamp:   parseUnix(row.TimeStamp),
			BlockNumber: block,
		})
	}
	return transfers, nil
}

func parseAmount(value, decimals string) (float64, error) {
	raw, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q: %w", value, err)
	}
	dec, err := strconv.Atoi(decimals)
	if err != nil {
		return 0, fmt.Errorf("decimals %q: %w", decimals, err)
	}
	return raw / math.Pow10(dec), nil
}

func parseUnix(s string) time.Time {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
