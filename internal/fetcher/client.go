// Package fetcher retrieves per-location wage and expense data from the MIT
// Living Wage Calculator. Requests are rate-limited and carry a fair-use
// User-Agent; usage stays within the source's stated 10-location policy.
package fetcher

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/colcmp/internal/dataset"
	"github.com/sells-group/colcmp/internal/model"
)

// DefaultBaseURL is the data source root.
const DefaultBaseURL = "https://livingwage.mit.edu"

// Client fetches and parses location pages.
type Client struct {
	http    *HTTPFetcher
	baseURL string
}

// NewClient creates a Client against the given base URL.
func NewClient(baseURL string, httpFetcher *HTTPFetcher) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: httpFetcher, baseURL: baseURL}
}

// URL returns the page URL for a location.
func (c *Client) URL(id model.ID) (string, error) {
	switch id.Kind {
	case model.KindMetro:
		return c.baseURL + "/metros/" + id.Code, nil
	case model.KindCounty:
		return c.baseURL + "/counties/" + id.Code, nil
	case model.KindState:
		return c.baseURL + "/states/" + id.Code, nil
	}
	return "", eris.Wrapf(model.ErrUnknownKind, "%q", string(id.Kind))
}

// FetchLocation downloads and parses one location's page into raw figures.
func (c *Client) FetchLocation(ctx context.Context, id model.ID) (*dataset.RawLocation, error) {
	url, err := c.URL(id)
	if err != nil {
		return nil, err
	}

	body, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch %s", id)
	}
	defer body.Close() //nolint:errcheck

	page, err := ParsePage(body)
	if err != nil {
		return nil, eris.Wrapf(err, "parse %s", id)
	}

	raw, err := page.ToRawLocation(id)
	if err != nil {
		return nil, eris.Wrapf(err, "convert %s", id)
	}
	return raw, nil
}

// ToRawLocation converts a parsed page into a dataset entry. Family
// configurations without a before-tax income are dropped; the before-tax
// figure is the anchor every downstream calculation needs.
func (p *Page) ToRawLocation(id model.ID) (*dataset.RawLocation, error) {
	families := make(map[string]model.Figures)
	for _, key := range model.FamilyKeys() {
		bt, ok := p.BeforeTax[key]
		if !ok {
			continue
		}
		fig := model.Figures{
			HourlyWage: p.Wages[key],
			BeforeTax:  bt,
			AfterTax:   p.AfterTax[key],
			Taxes:      p.Taxes[key],
		}
		for cat, byFamily := range p.Expenses {
			fig.Expenses[cat] = byFamily[key]
		}
		families[key] = fig
	}

	if len(families) == 0 {
		return nil, eris.Wrap(ErrPageLayout, "no family configuration has a before-tax income")
	}

	name := p.Name
	if name == "" {
		name = "Unknown"
	}
	return &dataset.RawLocation{ID: id, Name: name, Families: families}, nil
}
