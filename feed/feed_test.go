package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opencustody/vault"
)

func TestClient_Latest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"price":2000.5,"ts":1770000000},"status":"ok"}`))
	}))
	defer srv.Close()

	c := New(Config{
		URL:           srv.URL,
		ValuePath:     "$.data.price",
		UpdatedAtPath: "$.data.ts",
	}, nil)

	s, err := c.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	// 2000.5 scaled to 8 fractional digits
	if want := vault.A(int64(200_050_000_000)); !s.Value.Equal(want) {
		t.Errorf("Value = %s, want %s", s.Value, want)
	}
	if want := time.Unix(1770000000, 0); !s.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %s, want %s", s.UpdatedAt, want)
	}
}

func TestClient_LatestWithoutTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price":1.0}`))
	}))
	defer srv.Close()

	c := New(Config{URL: srv.URL, ValuePath: "$.price"}, nil)
	before := time.Now()
	s, err := c.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if s.UpdatedAt.Before(before) {
		t.Errorf("UpdatedAt = %s, want stamped at fetch time", s.UpdatedAt)
	}
}

func TestClient_LatestFailures(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer srv.Close()
		c := New(Config{URL: srv.URL, ValuePath: "$.price"}, nil)
		if _, err := c.Latest(context.Background()); err == nil {
			t.Error("Latest() succeeded on a 502")
		}
	})

	t.Run("missing path", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{}}`))
		}))
		defer srv.Close()
		c := New(Config{URL: srv.URL, ValuePath: "$.data.price"}, nil)
		if _, err := c.Latest(context.Background()); err == nil {
			t.Error("Latest() succeeded without the price field")
		}
	})

	t.Run("not a number", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"price":"high"}`))
		}))
		defer srv.Close()
		c := New(Config{URL: srv.URL, ValuePath: "$.price"}, nil)
		if _, err := c.Latest(context.Background()); err == nil {
			t.Error("Latest() accepted a string price")
		}
	})
}

func TestStream_LatestBeforeConnect(t *testing.T) {
	s := NewStream("ws://localhost:1/prices", nil)
	if _, err := s.Latest(context.Background()); err == nil {
		t.Error("Latest() succeeded before any price arrived")
	}
	if s.IsConnected() {
		t.Error("IsConnected() = true before Connect")
	}
}
