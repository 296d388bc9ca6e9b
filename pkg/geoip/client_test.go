package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/8.8.8.8", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","country":"Brazil","regionName":"Sao Paulo","city":"Sao Paulo","isp":"Example ISP"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	loc, err := c.Lookup(context.Background(), "8.8.8.8")
	assert.NoError(t, err)
	assert.Equal(t, "Brazil", loc.Country)
	assert.Equal(t, "Sao Paulo", loc.City)

	// Second lookup served from cache.
	_, err = c.Lookup(context.Background(), "8.8.8.8")
	assert.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLookupFailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Lookup(context.Background(), "240.0.0.1")
	assert.Error(t, err)
}

func TestLookupPrivateAddressSkipsNetwork(t *testing.T) {
	c := NewClient("http://invalid.localdomain")

	for _, ip := range []string{
		"127.0.0.1",
		"::1",
		"10.0.0.5",
		"192.168.1.10",
		"172.16.0.1",
		"172.19.44.2",
		"172.30.255.1",
		"fd12:3456::1",
	} {
		loc, err := c.Lookup(context.Background(), ip)
		assert.NoError(t, err, ip)
		assert.Empty(t, loc.Country, ip)
	}
}

func TestIsPrivate(t *testing.T) {
	assert.True(t, isPrivate("172.19.0.1"))
	assert.True(t, isPrivate("172.30.0.1"))
	assert.False(t, isPrivate("172.32.0.1"))
	assert.False(t, isPrivate("8.8.8.8"))
	assert.False(t, isPrivate("not-an-ip"))
}
