package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

var ErrNoPairs = errors.New("no trading pairs for token")

// Quote is the snapshot shown by /price.
type Quote struct {
	PriceUSD  float64
	MarketCap float64
	Volume24h float64
	Change24h float64
}

type Client struct {
	http        *http.Client
	address     string
	apiKey      string
	DexBaseURL  string
	BirdBaseURL string
}

func New(address, birdeyeAPIKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:        &http.Client{Timeout: timeout},
		address:     address,
		apiKey:      birdeyeAPIKey,
		DexBaseURL:  "https://api.dexscreener.com",
		BirdBaseURL: "https://public-api.birdeye.so",
	}
}

type dexResponse struct {
	Pairs []struct {
		PriceUSD  string  `json:"priceUsd"`
		FDV       float64 `json:"fdv"`
		MarketCap float64 `json:"marketCap"`
		Volume    struct {
			H24 float64 `json:"h24"`
		} `json:"volume"`
		PriceChange struct {
			H24 float64 `json:"h24"`
		} `json:"priceChange"`
	} `json:"pairs"`
}

func (c *Client) Price(ctx context.Context) (Quote, error) {
	url := fmt.Sprintf("%s/latest/dex/tokens/%s", c.DexBaseURL, c.address)
	var decoded dexResponse
	if err := c.getJSON(ctx, url, nil, &decoded); err != nil {
		return Quote{}, err
	}
	if len(decoded.Pairs) == 0 {
		return Quote{}, ErrNoPairs
	}

	pair := decoded.Pairs[0]
	price, err := strconv.ParseFloat(pair.PriceUSD, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("bad priceUsd %q: %w", pair.PriceUSD, err)
	}
	marketCap := pair.FDV
	if marketCap == 0 {
		marketCap = pair.MarketCap
	}
	return Quote{
		PriceUSD:  price,
		MarketCap: marketCap,
		Volume24h: pair.Volume.H24,
		Change24h: pair.PriceChange.H24,
	}, nil
}

type birdeyeResponse struct {
	Data struct {
		Holder int `json:"holder"`
	} `json:"data"`
}

// Holders reports the holder count, or ok=false when the provider has no
// data for the token.
func (c *Client) Holders(ctx context.Context) (int, bool, error) {
	url := fmt.Sprintf("%s/defi/token_overview?address=%s", c.BirdBaseURL, c.address)
	headers := map[string]string{"X-API-KEY": c.apiKey}
	var decoded birdeyeResponse
	if err := c.getJSON(ctx, url, headers, &decoded); err != nil {
		return 0, false, err
	}
	if decoded.Data.Holder == 0 {
		return 0, false, nil
	}
	return decoded.Data.Holder, true, nil
}

func (c *Client) getJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
