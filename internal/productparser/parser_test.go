package productparser

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantName string
		wantDesc string
	}{
		{
			"open graph",
			`<html><head>
				<meta property="og:title" content="EcoBottle 750ml">
				<meta property="og:description" content="Reusable   steel
				bottle">
				<meta name="description" content="ignored">
				<title>Shop | EcoBottle</title>
			</head></html>`,
			"EcoBottle 750ml",
			"Reusable steel bottle",
		},
		{
			"meta description and h1",
			`<html><head><title>Shop</title><meta name="description" content="Cold for 24h"></head>
			<body><h1> EcoBottle </h1></body></html>`,
			"EcoBottle",
			"Cold for 24h",
		},
		{
			"title only",
			`<html><head><title>EcoBottle Store</title></head><body></body></html>`,
			"EcoBottle Store",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			if err != nil {
				t.Fatal(err)
			}
			got := ParseDocument(doc)
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", got.Description, tt.wantDesc)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("héllo", 2); got != "hé" {
		t.Errorf("truncate = %q, want %q", got, "hé")
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Errorf("truncate = %q, want %q", got, "abc")
	}
}

func TestFetchPreviewRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing user agent")
		}
		_, _ = w.Write([]byte(`<meta property="og:title" content="EcoBottle">`))
	}))
	defer srv.Close()

	p := newLocalParser(2, 2000)
	got, err := p.FetchPreview(context.Background(), srv.URL+"/p/1")
	if err != nil {
		t.Fatalf("FetchPreview: %v", err)
	}
	if got.Name != "EcoBottle" {
		t.Errorf("Name = %q, want EcoBottle", got.Name)
	}
	if hits.Load() != 2 {
		t.Errorf("expected 2 requests, got %d", hits.Load())
	}
}

func TestFetchPreviewGivesUp(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := newLocalParser(1, 2000)
	if _, err := p.FetchPreview(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error")
	}
	if hits.Load() != 2 {
		t.Errorf("expected 2 requests, got %d", hits.Load())
	}
}

func TestFetchPreviewDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := newLocalParser(3, 2000)
	if _, err := p.FetchPreview(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error")
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 request, got %d", hits.Load())
	}
}

func TestFetchPreviewBlocksLocalAddresses(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`<title>internal</title>`))
	}))
	defer srv.Close()

	p := NewParser(2000, 2, zap.NewNop())
	byName := strings.Replace(srv.URL, "127.0.0.1", "localhost", 1)

	for _, u := range []string{
		srv.URL,
		byName,
		"http://169.254.169.254/latest/meta-data/",
		"http://10.0.0.1/",
		"http://[::1]:8080/",
	} {
		if _, err := p.FetchPreview(context.Background(), u); !errors.Is(err, ErrBlockedHost) {
			t.Errorf("FetchPreview(%q) err = %v, want ErrBlockedHost", u, err)
		}
	}
	if hits.Load() != 0 {
		t.Errorf("local server was reached %d times", hits.Load())
	}
}

func TestBlockedIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"169.254.169.254", true},
		{"fe80::1", true},
		{"fd00::1", true},
		{"100.64.0.1", true},
		{"0.0.0.0", true},
		{"224.0.0.1", true},
		{"::ffff:127.0.0.1", true},
		{"8.8.8.8", false},
		{"93.184.216.34", false},
		{"2606:4700::1111", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := blockedIP(net.ParseIP(tt.ip)); got != tt.want {
				t.Errorf("blockedIP(%s) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}

// newLocalParser can reach httptest servers on the loopback interface.
func newLocalParser(maxRetries, timeoutMS int) *Parser {
	p := NewParser(timeoutMS, maxRetries, zap.NewNop())
	p.allowPrivate = true
	return p
}

func TestFetchPreviewRejectsBadURL(t *testing.T) {
	p := NewParser(1000, 0, zap.NewNop())
	for _, u := range []string{"", "ftp://example.com", "/relative", "http://"} {
		if _, err := p.FetchPreview(context.Background(), u); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("FetchPreview(%q) err = %v, want ErrInvalidURL", u, err)
		}
	}
}
