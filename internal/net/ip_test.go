package net

import (
	"net"
	"strings"
	"testing"
)

func TestOutgoingIPIsIPv4(t *testing.T) {
	for _, ip := range []string{OutgoingIP(), firstIPv4()} {
		parsed := net.ParseIP(ip)
		if parsed == nil || parsed.To4() == nil {
			t.Fatalf("%q is not an IPv4 address", ip)
		}
	}
}

func TestShareLinkRoundTrip(t *testing.T) {
	link := ShareLink("192.168.1.20", 8899)
	if !strings.HasPrefix(link, Scheme) {
		t.Fatalf("link %q lacks scheme", link)
	}
	url, err := ParseLink(link)
	if err != nil {
		t.Fatalf("ParseLink: %v", err)
	}
	if url != "ws://192.168.1.20:8899/ws" {
		t.Fatalf("url = %q", url)
	}
}
