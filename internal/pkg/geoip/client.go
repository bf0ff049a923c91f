// Package geoip resolves a client IP to an approximate location through an
// ip-api compatible HTTP service.
package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/matcha/matcha-api/internal/pkg/errorhandler"
)

const defaultTimeout = 5 * time.Second

// Location is the resolved position of an IP address.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}

type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}

type Client struct {
	baseURL string
	ua      string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration, ua string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		ua:      ua,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Lookup resolves ip. An empty ip asks the service for the caller's own address.
func (c *Client) Lookup(ctx context.Context, ip string) (*Location, error) {
	const op = "geoip lookup"

	if c == nil || c.http == nil {
		return nil, errorhandler.Internal(op, errors.New("client is nil"))
	}
	if c.baseURL == "" {
		return nil, errorhandler.Internal(op, errors.New("base_url is empty"))
	}

	endpoint := c.baseURL + "/json/"
	if ip != "" {
		endpoint += url.PathEscape(ip)
	}
	endpoint += "?fields=status,message,country,city,lat,lon"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errorhandler.Internal(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyRequestError(ctx, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, errorhandler.Network(op, err, false)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errorhandler.Network(op, fmt.Errorf("status=%d", resp.StatusCode), true)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errorhandler.Network(op, fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body)), resp.StatusCode >= 500)
	}

	var out lookupResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errorhandler.Network(op, fmt.Errorf("decode response: %w", err), false)
	}
	if out.Status != "success" {
		msg := out.Message
		if msg == "" {
			msg = "lookup failed"
		}
		return nil, &errorhandler.Error{Kind: errorhandler.KindNotFound, Op: op, Message: "location unavailable for this address: " + msg}
	}

	return &Location{
		Latitude:  out.Lat,
		Longitude: out.Lon,
		City:      out.City,
		Country:   out.Country,
	}, nil
}

func classifyRequestError(ctx context.Context, op string, err error) error {
	if isTimeoutError(ctx, err) {
		return errorhandler.Network(op+" timeout", err, true)
	}
	if isNetworkError(err) {
		return errorhandler.Network(op+" network error", err, true)
	}
	return errorhandler.Network(op+" request error", err, false)
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
