package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"TopicBridge/internal/ports"
)

const defaultItemSelector = "article a"

// HTMLProbe watches the first item of a news listing page. The first successful
// fetch only primes the probe; later fetches report whether the lead item changed.
type HTMLProbe struct {
	client   *http.Client
	pageURL  string
	selector string

	mu   sync.Mutex
	last string
}

var _ ports.FeedProbe = (*HTMLProbe)(nil)

// NewHTMLProbe wires an HTTP client; selector defaults to "article a".
func NewHTMLProbe(client *http.Client, pageURL, selector string) (*HTMLProbe, error) {
	if _, err := url.ParseRequestURI(pageURL); err != nil {
		return nil, fmt.Errorf("invalid feed url %q: %w", pageURL, err)
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if strings.TrimSpace(selector) == "" {
		selector = defaultItemSelector
	}
	return &HTMLProbe{client: client, pageURL: pageURL, selector: selector}, nil
}

// HasNewContent fetches the listing and compares its lead item with the previous observation.
func (p *HTMLProbe) HasNewContent(ctx context.Context) (bool, error) {
	doc, err := p.fetchDocument(ctx)
	if err != nil {
		return false, err
	}

	current := leadItem(doc, p.selector, p.pageURL)
	if current == "" {
		return false, fmt.Errorf("no items match %q", p.selector)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.last == "" {
		p.last = current
		return false, nil
	}
	changed := current != p.last
	p.last = current
	return changed, nil
}

func (p *HTMLProbe) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "TopicBridge/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// leadItem identifies the first matching item by its resolved link, falling back to its text.
func leadItem(doc *goquery.Document, selector, base string) string {
	item := doc.Find(selector).First()
	if item.Length() == 0 {
		return ""
	}

	text := strings.Join(strings.Fields(item.Text()), " ")
	href, ok := item.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return text
	}
	return resolve(base, strings.TrimSpace(href)) + "|" + text
}

func resolve(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
