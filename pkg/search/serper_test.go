package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reflectlabs/reflective-tutor/pkg/config"
)

func TestSearch_NoCredentials(t *testing.T) {
	client := NewClient(&config.SerperConfig{})

	resources, err := client.Search(context.Background(), "photosynthesis diagram", ResultTypeImages, 2)
	if err != nil {
		t.Fatalf("expected degrade without credentials, got error: %v", err)
	}
	if len(resources) != 0 {
		t.Fatalf("expected empty result, got %d", len(resources))
	}
}

func TestSearch_Images(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images" {
			t.Fatalf("expected /images path, got %s", r.URL.Path)
		}
		if r.Header.Get("X-API-KEY") != "test-key" {
			t.Fatalf("missing api key header")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"images": []map[string]string{
				{"title": "Diagram 1", "link": "http://a", "imageUrl": "http://a/img.png", "source": "example.org"},
				{"title": "Diagram 2", "link": "http://b", "imageUrl": "http://b/img.png", "source": "example.org"},
				{"title": "Diagram 3", "link": "http://c", "imageUrl": "http://c/img.png", "source": "example.org"},
			},
		})
	}))
	defer ts.Close()

	client := NewClient(&config.SerperConfig{APIKey: "test-key", BaseURL: ts.URL})

	resources, err := client.Search(context.Background(), "photosynthesis diagram", ResultTypeImages, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(resources) != 2 {
		t.Fatalf("expected limit of 2 results, got %d", len(resources))
	}
	if resources[0].ImageURL != "http://a/img.png" {
		t.Errorf("unexpected imageUrl %q", resources[0].ImageURL)
	}
}

func TestSearch_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	client := NewClient(&config.SerperConfig{APIKey: "test-key", BaseURL: ts.URL})

	if _, err := client.Search(context.Background(), "q", ResultTypeSearch, 2); err == nil {
		t.Fatal("expected error on upstream 403")
	}
}
