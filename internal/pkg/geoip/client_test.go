package geoip

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matcha/matcha-api/internal/pkg/errorhandler"
)

func TestLookupSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.URL.Path != "/json/81.2.69.142" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("invalid path " + r.URL.Path))
			return
		}
		if !strings.Contains(r.URL.RawQuery, "fields=") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Header.Get("User-Agent") != "Matcha/1.0 geoip" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"status":"success","lat":51.5,"lon":-0.12,"city":"London","country":"United Kingdom"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second, "Matcha/1.0 geoip")
	loc, err := client.Lookup(context.Background(), "81.2.69.142")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if loc.City != "London" || loc.Country != "United Kingdom" || loc.Latitude != 51.5 || loc.Longitude != -0.12 {
		t.Fatalf("unexpected location %+v", loc)
	}
}

func TestLookupFailStatusIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	t.Cleanup(server.Close)

	_, err := NewClient(server.URL, time.Second, "").Lookup(context.Background(), "10.0.0.1")
	if err == nil {
		t.Fatal("expected error")
	}
	if errorhandler.KindOf(err) != errorhandler.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.Error(), "private range") {
		t.Fatalf("expected upstream message in error, got %v", err)
	}
}

func TestLookupHTTPErrorIsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	t.Cleanup(server.Close)

	_, err := NewClient(server.URL, time.Second, "").Lookup(context.Background(), "")
	if errorhandler.KindOf(err) != errorhandler.KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
	if !strings.Contains(err.Error(), "status=502") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestLookupTimeoutClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	_, err := NewClient(server.URL, 20*time.Millisecond, "").Lookup(context.Background(), "1.1.1.1")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "geoip lookup timeout") {
		t.Fatalf("expected timeout classification, got %v", err)
	}
	var e *errorhandler.Error
	if !errors.As(err, &e) || !e.Retryable {
		t.Fatalf("timeouts should be retryable, got %v", err)
	}
}
