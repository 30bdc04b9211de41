package productparser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	maxPageBytes   = 2 << 20
	maxDescription = 1000
	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var (
	ErrInvalidURL  = errors.New("url must be absolute http(s)")
	ErrBlockedHost = errors.New("url points to a private or local address")
)

// cgnat is the shared address space of RFC 6598; net.IP has no predicate for it.
var cgnat = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

// blockedIP reports addresses a caller-supplied URL must never reach:
// loopback, private ranges, link-local (cloud metadata) and multicast.
func blockedIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		cgnat.Contains(ip)
}

// statusError is a non-200 answer from the product page.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.code, e.url)
}

// retryable is false for answers another attempt cannot change.
func retryable(err error) bool {
	if errors.Is(err, ErrBlockedHost) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return true
}

// Preview is what a product page says about itself, used to prefill the
// campaign form.
type Preview struct {
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SiteName    string    `json:"site_name,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

type Parser struct {
	httpClient   *http.Client
	log          *zap.Logger
	maxRetries   int
	allowPrivate bool
}

// NewParser returns a parser whose connections are checked after DNS
// resolution, so redirects and rebinding cannot reach a blocked address.
func NewParser(timeoutMS, maxRetries int, log *zap.Logger) *Parser {
	p := &Parser{
		log:        log,
		maxRetries: maxRetries,
	}

	dialer := &net.Dialer{
		Timeout: 5 * time.Second,
		Control: p.checkDial,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	p.httpClient = &http.Client{
		Timeout:   time.Duration(timeoutMS) * time.Millisecond,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return ErrInvalidURL
			}
			return nil
		},
	}
	return p
}

func (p *Parser) checkDial(network, address string, _ syscall.RawConn) error {
	if p.allowPrivate {
		return nil
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || blockedIP(ip) {
		return ErrBlockedHost
	}
	return nil
}

func (p *Parser) FetchPreview(ctx context.Context, rawURL string) (*Preview, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, ErrInvalidURL
	}
	if ip := net.ParseIP(u.Hostname()); ip != nil && !p.allowPrivate && blockedIP(ip) {
		return nil, ErrBlockedHost
	}

	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		doc, lastErr = p.fetch(ctx, u.String())
		if lastErr == nil {
			break
		}
		p.log.Debug("product page fetch failed",
			zap.String("url", u.String()),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
		if !retryable(lastErr) {
			break
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}

	preview := ParseDocument(doc)
	preview.URL = u.String()
	preview.FetchedAt = time.Now()
	return preview, nil
}

func (p *Parser) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, url: pageURL}
	}

	return goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
}

// ParseDocument prefers Open Graph tags, then standard meta tags, then the
// page title and first heading.
func ParseDocument(doc *goquery.Document) *Preview {
	preview := &Preview{
		Name: firstNonEmpty(
			metaContent(doc, `meta[property="og:title"]`),
			metaContent(doc, `meta[name="twitter:title"]`),
			strings.TrimSpace(doc.Find("h1").First().Text()),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Description: firstNonEmpty(
			metaContent(doc, `meta[property="og:description"]`),
			metaContent(doc, `meta[name="description"]`),
			metaContent(doc, `meta[name="twitter:description"]`),
		),
		SiteName: metaContent(doc, `meta[property="og:site_name"]`),
	}

	preview.Name = collapseSpaces(preview.Name)
	preview.Description = truncate(collapseSpaces(preview.Description), maxDescription)
	return preview
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
