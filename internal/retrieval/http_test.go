package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"revintel/internal/types"
)

func TestHTTPClient_Retrieve(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(Result{
			Tools: []types.Tool{{Name: "Gong", ICPFit: 0.9}},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret-key", time.Second)
	result, err := c.Retrieve(context.Background(), "churn tools for saas", Filter{ICP: types.ICPSaaS})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	if gotPath != "/v1/retrieve" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody["query"] != "churn tools for saas" {
		t.Errorf("query = %v", gotBody["query"])
	}
	if len(result.Tools) != 1 || result.Tools[0].Name != "Gong" {
		t.Errorf("result = %+v", result)
	}
}

func TestHTTPClient_Benchmarks404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", time.Second)
	bench, err := c.Benchmarks(context.Background(), types.ICPAgency)
	if err != nil {
		t.Fatalf("404 should not be an error, got %v", err)
	}
	if bench != nil {
		t.Errorf("404 should yield nil benchmarks, got %+v", bench)
	}
}

func TestHTTPClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", time.Second)
	if _, err := c.Benchmarks(context.Background(), types.ICPAgency); err == nil {
		t.Fatal("expected error on 500")
	}
	if _, err := c.MarketContext(context.Background(), types.ICPSaaS); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestHTTPClient_TransportErrorIsUnavailable(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := NewHTTPClient(srv.URL, "", time.Second)
	_, err := c.Retrieve(context.Background(), "q", Filter{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestHTTPClient_MarketContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/market/itsm" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(types.MarketTrends{Rising: []string{"AI ticket triage"}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", time.Second)
	trends, err := c.MarketContext(context.Background(), types.ICPITSM)
	if err != nil {
		t.Fatalf("MarketContext: %v", err)
	}
	if len(trends.Rising) != 1 || trends.Rising[0] != "AI ticket triage" {
		t.Errorf("trends = %+v", trends)
	}
}
