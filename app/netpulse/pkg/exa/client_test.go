package exa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iWorld-y/netpulse/app/netpulse/pkg/retry"
	"github.com/iWorld-y/netpulse/app/netpulse/pkg/search"
)

func TestClient_Search(t *testing.T) {
	var got SearchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "exa-key" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"results":[{"title":"E","url":"https://e","text":"body"}]}`))
	}))
	defer srv.Close()

	c := NewClient("exa-key", WithBaseURL(srv.URL))
	resp, err := c.Search(context.Background(), &search.Request{Query: "q", Topic: "news", MaxResults: 6, StartDate: "2025-01-01"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got.NumResults != 6 || !got.Contents.Text || got.Category != "news" || got.StartPublishedDate != "2025-01-01T00:00:00.000Z" {
		t.Errorf("request = %+v", got)
	}
	if len(resp.Results) != 1 || resp.Results[0].Content != "body" {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestClient_SearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithRetry(retry.Policy{Attempts: 2, BaseDelay: time.Millisecond}))
	_, err := c.Search(context.Background(), &search.Request{Query: "q"})
	var se *retry.StatusError
	if err == nil || !errors.As(err, &se) || se.Code != http.StatusBadGateway {
		t.Errorf("Search() error = %v, want 502 StatusError", err)
	}
}

