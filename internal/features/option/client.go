package option

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"store-console/internal/config"
	"store-console/pkg/policy"
)

// UpstreamClient talks to the external dropdown-option service. One
// batched request carries every distinct condition key of a load cycle,
// so round-trips stay O(1) no matter how many conditions a module
// defines.
type UpstreamClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewUpstream wires the upstream fetcher from config. A missing URL
// disables the upstream source; local dropdown sources still work.
func NewUpstream(cfg *config.Config) UpstreamFetcher {
	if cfg.OptionServiceURL == "" {
		return nil
	}
	return NewUpstreamClient(cfg.OptionServiceURL)
}

func NewUpstreamClient(baseURL string) *UpstreamClient {
	return &UpstreamClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// flexID tolerates option ids arriving as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexID(n.String())
		return nil
	}
	return fmt.Errorf("option id must be a string or number, got %s", data)
}

type upstreamOption struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

type upstreamTable struct {
	Conditions []struct {
		ConditionKey string `json:"condition_key"`
	} `json:"conditions"`
	Data []upstreamOption `json:"data"`
}

// upstreamResponse covers both shapes the service is known to return:
// a direct conditionKey -> options mapping, or options grouped under
// named tables that declare which keys they serve.
type upstreamResponse struct {
	Conditions map[string][]upstreamOption `json:"conditions"`
	Tables     map[string]upstreamTable    `json:"tables"`
}

// FetchOptions issues the single batched lookup and distributes the
// response to each requested key. Every requested key is present in the
// result; keys the service knows nothing about map to an empty list.
func (c *UpstreamClient) FetchOptions(ctx context.Context, keys []string) (map[string][]policy.Option, error) {
	result := make(map[string][]policy.Option, len(keys))
	for _, key := range keys {
		result[key] = []policy.Option{}
	}
	if len(keys) == 0 {
		return result, nil
	}

	endpoint := fmt.Sprintf("%s/conditions/options?keys=%s",
		c.baseURL, url.QueryEscape(strings.Join(keys, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("option lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("option service returned status %d", resp.StatusCode)
	}

	var body upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode option response: %w", err)
	}

	for _, key := range keys {
		if opts, ok := body.Conditions[key]; ok {
			result[key] = convertOptions(opts)
			continue
		}
		// Fallback shape: search the tables for one serving this key.
		for _, table := range body.Tables {
			if tableServes(table, key) {
				result[key] = convertOptions(table.Data)
				break
			}
		}
	}

	return result, nil
}

func tableServes(table upstreamTable, key string) bool {
	for _, c := range table.Conditions {
		if c.ConditionKey == key {
			return true
		}
	}
	return false
}

func convertOptions(raw []upstreamOption) []policy.Option {
	out := make([]policy.Option, 0, len(raw))
	for _, o := range raw {
		out = append(out, policy.Option{ID: string(o.ID), Name: o.Name})
	}
	return out
}
