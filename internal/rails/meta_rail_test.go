package rails

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maheshrc27/feedrail/internal/models"
	"github.com/maheshrc27/feedrail/internal/transfer"
)

func TestMetaRailPublishSuccess(t *testing.T) {
	var got transfer.MetaFeedRequest
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"id":"123_456"}`))
	}))
	defer srv.Close()

	rail := NewMetaRail(srv.URL, srv.Client())
	out := rail.Publish(context.Background(), "hello", []string{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"}, "tok", "page-1")

	if !out.Success || out.RemoteID != "123_456" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if path != "/page-1/feed" {
		t.Fatalf("path = %s, want /page-1/feed", path)
	}
	if got.Message != "hello" || got.AccessToken != "tok" || got.Link != "https://cdn.example.com/a.png" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestMetaRailPublishFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "graph error", status: http.StatusBadRequest, body: `{"error":{"message":"Invalid OAuth access token.","code":190}}`, want: "Invalid OAuth access token."},
		{name: "no id", status: http.StatusOK, body: `{}`, want: models.OutcomeUnknownError},
		{name: "server error without body", status: http.StatusBadGateway, body: `{"error":{}}`, want: models.OutcomeUnknownError},
		{name: "not json", status: http.StatusInternalServerError, body: `<html>oops</html>`, want: models.OutcomeNetworkError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			out := NewMetaRail(srv.URL, srv.Client()).Publish(context.Background(), "hi", nil, "tok", "page")
			if out.Success {
				t.Fatalf("expected failure, got %+v", out)
			}
			if out.Error != tt.want {
				t.Fatalf("Error = %q, want %q", out.Error, tt.want)
			}
		})
	}
}

func TestMetaRailTransportErrorIsAnOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	out := NewMetaRail(url, nil).Publish(context.Background(), "hi", nil, "tok", "page")
	if out.Success || out.Error != models.OutcomeNetworkError {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}
