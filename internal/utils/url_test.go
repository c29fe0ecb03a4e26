package utils

import "testing"

func TestNormalizeURL(t *testing.T) {
	normalized, host, err := NormalizeURL("X.com/sune/status/1?utm_source=tg&b=2&a=1#frag")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if host != "x.com" {
		t.Fatalf("expected host x.com, got %q", host)
	}
	if normalized != "https://x.com/sune/status/1?a=1&b=2" {
		t.Fatalf("unexpected url: %q", normalized)
	}
}

func TestNormalizeURLRejectsEmptyHost(t *testing.T) {
	if _, _, err := NormalizeURL("https:///nothing"); err == nil {
		t.Fatalf("expected error for missing host")
	}
}

func TestExtractURLs(t *testing.T) {
	urls := ExtractURLs("go like https://x.com/a and https://x.com/b now")
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %v", urls)
	}
}
