// Package inline talks to the upstream booking platform's capacity
// endpoint. Probes are deliberately soft: the caller treats any error as
// "no slot yet" and retries on the next pass.
package inline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://inline.app"

// SlotParser derives the open time slots from a raw capacities response.
// The real payload schema has not been validated end to end, so detection
// is pluggable; see DefaultSlotParser.
type SlotParser func(body []byte) []string

type Client struct {
	hc      *http.Client
	BaseURL string
	Parse   SlotParser
}

func New() *Client {
	return &Client{
		// The platform can be slow to answer capacity queries; a stuck
		// probe only delays its own task, bounded by this timeout.
		hc:      &http.Client{Timeout: 10 * time.Second},
		BaseURL: defaultBaseURL,
		Parse:   DefaultSlotParser,
	}
}

// Probe asks whether the venue has open slots for the date and party size.
// An empty slice means no slot; a non-nil error means the upstream could
// not be consulted (network, timeout, non-200, unparseable body).
func (c *Client) Probe(ctx context.Context, companyID, branchID, date string, partySize int) ([]string, error) {
	u := fmt.Sprintf("%s/api/companies/%s/branches/%s/capacities?date=%s&partySize=%d",
		c.BaseURL, url.PathEscape(companyID), url.PathEscape(branchID), url.QueryEscape(date), partySize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	// The platform rejects requests without a browser-like identity.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("capacity query failed (status=%d)", res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	return c.Parse(body), nil
}
