// Package geoip resolves coarse location data for an IP address via a
// public lookup service. Lookups are best effort: callers treat every
// failure as "location unknown" and move on.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

type Resolver interface {
	Lookup(ctx context.Context, ip string) (*Location, error)
}

type Location struct {
	Country string
	Region  string
	City    string
	ISP     string
}

type Client struct {
	BaseURL    string // e.g. http://ip-api.com/json
	HTTPClient *http.Client
	cache      *cache.Cache
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		// IP geolocation is effectively static; cache hard for a day.
		cache: cache.New(24*time.Hour, 1*time.Hour),
	}
}

// Lookup resolves ip. Private and loopback addresses short-circuit to an
// empty location without a network call.
func (c *Client) Lookup(ctx context.Context, ip string) (*Location, error) {
	if ip == "" || isPrivate(ip) {
		return &Location{}, nil
	}

	if v, found := c.cache.Get(ip); found {
		return v.(*Location), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/"+ip, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result struct {
		Status     string `json:"status"`
		Message    string `json:"message"`
		Country    string `json:"country"`
		RegionName string `json:"regionName"`
		City       string `json:"city"`
		ISP        string `json:"isp"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if result.Status == "fail" {
		return nil, fmt.Errorf("ip lookup failed: %s", result.Message)
	}

	loc := &Location{
		Country: result.Country,
		Region:  result.RegionName,
		City:    result.City,
		ISP:     result.ISP,
	}
	c.cache.Set(ip, loc, cache.DefaultExpiration)

	return loc, nil
}

func isPrivate(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsLinkLocalUnicast()
}
