// Package scrape builds a catalog by parsing a public cloud products page.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

// DefaultURL is the products directory page the scraper understands.
const DefaultURL = "https://azure.microsoft.com/en-us/products/"

// Page structure selectors.
const (
	sectionSelector = "section[data-test-id='products-list-section']"
	productSelector = "li"
	nameSelector    = "span.product-name"
	linkSelector    = "a[href]"
	otherCategory   = "Other"
	userAgent       = "Mozilla/5.0 (compatible; cloudadvisor)"
)

// ensured lists services added when the page does not mention them. match
// is tested against lowercased scraped names.
var ensured = []struct {
	match string
	entry catalog.Entry
}{
	{
		match: "fabric",
		entry: catalog.Entry{
			Name:       "Microsoft Fabric",
			Category:   catalog.CategoryAnalytics,
			DocsURL:    "https://learn.microsoft.com/en-us/fabric/",
			PricingURL: "https://azure.microsoft.com/en-us/pricing/details/microsoft-fabric/",
		},
	},
	{
		match: "power bi",
		entry: catalog.Entry{
			Name:     "Power BI",
			Category: catalog.CategoryAnalytics,
			DocsURL:  "https://powerbi.microsoft.com/",
		},
	},
}

var _ catalog.Source = (*Source)(nil)

// Source fetches and parses the products page on every call. Wrap it in a
// catalog.CachedSource to avoid refetching per request.
type Source struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// New creates a scraping Source for pageURL. An empty pageURL uses DefaultURL.
func New(pageURL string, timeout time.Duration, logger *zap.Logger) *Source {
	if pageURL == "" {
		pageURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		url:    pageURL,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Entries fetches the page and returns the parsed catalog.
func (s *Source) Entries(ctx context.Context) ([]catalog.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("scrape: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape: fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape: fetch %s: unexpected status %d", s.url, resp.StatusCode)
	}

	base, err := url.Parse(s.url)
	if err != nil {
		return nil, fmt.Errorf("scrape: parse base url: %w", err)
	}

	entries, err := Parse(resp.Body, base)
	if err != nil {
		return nil, err
	}
	s.logger.Info("scraped catalog",
		zap.String("url", s.url),
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}

// Parse extracts catalog entries from a products page. Relative links are
// resolved against base. Malformed items are skipped. Returns
// catalog.ErrNoEntries when the page has no product sections.
func Parse(r io.Reader, base *url.URL) ([]catalog.Entry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("scrape: parse html: %w", err)
	}

	var entries []catalog.Entry
	doc.Find(sectionSelector).Each(func(_ int, section *goquery.Selection) {
		category := catalog.CleanText(section.Find("h2").First().Text())
		if category == "" {
			category = otherCategory
		}
		section.Find(productSelector).Each(func(_ int, item *goquery.Selection) {
			name := catalog.CleanText(item.Find(nameSelector).First().Text())
			href, ok := item.Find(linkSelector).First().Attr("href")
			if name == "" || !ok {
				return
			}
			entries = append(entries, catalog.Entry{
				Name:     name,
				Category: category,
				DocsURL:  resolve(base, href),
			})
		})
	})

	if len(entries) == 0 {
		return nil, catalog.ErrNoEntries
	}
	return ensure(entries), nil
}

// ensure appends the well-known services missing from entries.
func ensure(entries []catalog.Entry) []catalog.Entry {
	for _, e := range ensured {
		found := false
		for i := range entries {
			if strings.Contains(strings.ToLower(entries[i].Name), e.match) {
				found = true
				break
			}
		}
		if !found {
			entries = append(entries, e.entry)
		}
	}
	return entries
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
