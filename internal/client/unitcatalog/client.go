// Package unitcatalog talks to the handbook scraper service that resolves
// UWA unit codes to their descriptive metadata. The core uses it to
// validate unit codes and to enrich review responses; every call carries
// a bounded timeout and failures never escalate past the caller.
package unitcatalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rpl-backend/internal/model"

	"github.com/shopspring/decimal"
)

const DefaultTimeout = 8 * time.Second

// Client fetches unit metadata from the scraper service.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeout:    timeout,
		httpClient: httpClient,
	}
}

// scrapeResponse accepts both field spellings the scraper has used over
// time. Normalization into model.UnitInfo happens here and nowhere else.
type scrapeResponse struct {
	Code         string          `json:"code"`
	UnitCode     string          `json:"unitCode"`
	UnitName     string          `json:"unitName"`
	Name         string          `json:"name"`
	UnitLevel    string          `json:"unitLevel"`
	Level        string          `json:"level"`
	Outcomes     string          `json:"outcomes"`
	Assessments  string          `json:"assessments"`
	CreditPoints decimal.Decimal `json:"creditPoints"`
	ContactHours int             `json:"contactHours"`
	Year         int             `json:"year"`
	Desc         string          `json:"desc"`
	OutlineLink  string          `json:"outlineLink"`
	Error        string          `json:"error"`
}

// Lookup resolves a UWA unit code. A nil result with nil error means the
// catalog does not know the code.
func (c *Client) Lookup(ctx context.Context, code string) (*model.UnitInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/uwa/"+code, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup for %s: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog lookup for %s: status %d: %s", code, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog response for %s: %w", code, err)
	}
	if raw.Error != "" {
		return nil, nil
	}

	info := normalize(raw, code)
	if info.Code == "" {
		return nil, nil
	}
	return &info, nil
}

// IsValidUnitCode reports whether the catalog knows the code. Transport
// failures count as invalid; validation is best-effort by design.
func (c *Client) IsValidUnitCode(ctx context.Context, code string) bool {
	info, err := c.Lookup(ctx, code)
	return err == nil && info != nil
}

// Proxy performs a raw lookup and returns the upstream body and status
// for the pass-through endpoint.
func (c *Client) Proxy(ctx context.Context, code string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/uwa/"+code, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func normalize(raw scrapeResponse, requested string) model.UnitInfo {
	info := model.UnitInfo{
		Code:                  firstNonEmpty(raw.Code, raw.UnitCode, requested),
		Name:                  firstNonEmpty(raw.UnitName, raw.Name),
		Level:                 firstNonEmpty(raw.UnitLevel, raw.Level),
		Outcomes:              raw.Outcomes,
		IndicativeAssessments: raw.Assessments,
		CreditPoints:          raw.CreditPoints,
		ContactHours:          raw.ContactHours,
		Year:                  raw.Year,
		Desc:                  raw.Desc,
		University:            "UWA",
		Outline:               raw.OutlineLink,
	}
	if info.Outline == "" && info.Code != "" {
		info.Outline = "https://handbooks.uwa.edu.au/unitdetails?code=" + info.Code
	}
	return info
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
