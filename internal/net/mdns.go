package net

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_sketchboard._tcp"

// Advertise announces a sharing host on the local network. Shut the returned
// server down when sharing stops.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}
	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{"SketchBoard"})
	if err != nil {
		return nil, fmt.Errorf("mdns service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("mdns server: %w", err)
	}
	return server, nil
}

// Discover browses for sharing hosts for the given duration and returns their
// share links.
func Discover(timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan []string)
	go func() {
		seen := map[string]bool{}
		var links []string
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			link := ShareLink(e.AddrV4.String(), e.Port)
			if !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}
		done <- links
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	links := <-done
	if err != nil {
		return links, fmt.Errorf("mdns query: %w", err)
	}
	return links, nil
}
