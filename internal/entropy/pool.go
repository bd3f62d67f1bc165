package entropy

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Pooled is a Source backed by random.org's decimal-fraction API with a
// local buffer. Falls back to crypto/rand when the API is unavailable, so
// Float never blocks on the network beyond the refill call.
type Pooled struct {
	apiKey string
	client *http.Client

	mu   sync.Mutex
	pool []float64
}

// NewPooled creates a random.org-backed Source. Returns nil if apiKey is
// empty; callers treat a nil *Pooled as "use the seeded source instead".
func NewPooled(apiKey string) *Pooled {
	if apiKey == "" {
		return nil
	}
	return &Pooled{
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Float returns a random float64 in [0, 1), refilling the pool from
// random.org when it runs low.
func (p *Pooled) Float() float64 {
	if p == nil {
		return CryptoFloat()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.pool) < 10 {
		p.refill()
	}
	if len(p.pool) == 0 {
		return CryptoFloat()
	}

	v := p.pool[0]
	p.pool = p.pool[1:]
	return v
}

func (p *Pooled) refill() {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateDecimalFractions",
		"params": map[string]any{
			"apiKey":        p.apiKey,
			"n":             100,
			"decimalPlaces": 6,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		slog.Debug("random.org marshal failed", "error", err)
		return
	}

	resp, err := p.client.Post("https://api.random.org/json-rpc/4/invoke", "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Debug("random.org fetch failed", "error", err)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("random.org read failed", "error", err)
		return
	}

	var result struct {
		Result struct {
			Random struct {
				Data []float64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Debug("random.org parse failed", "error", err)
		return
	}
	if result.Error != nil {
		slog.Debug("random.org API error", "error", result.Error.Message)
		return
	}

	p.pool = append(p.pool, result.Result.Random.Data...)
	slog.Debug("random.org pool refilled", "count", len(result.Result.Random.Data))
}
