package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/reflectlabs/reflective-tutor/pkg/config"
)

// ResultType selects the search vertical.
type ResultType string

const (
	ResultTypeSearch ResultType = "search"
	ResultTypeImages ResultType = "images"
	ResultTypeVideos ResultType = "videos"
)

// Resource is one normalized search hit returned to the tutoring flow.
type Resource struct {
	Title    string `json:"title,omitempty"`
	Link     string `json:"link"`
	ImageURL string `json:"imageUrl,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
	Source   string `json:"source,omitempty"`
}

// Searcher is the resource-fetching dependency of the tutor conversation.
type Searcher interface {
	Search(ctx context.Context, query string, resultType ResultType, limit int) ([]Resource, error)
}

// Client is a minimal Serper web-search client
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a search client using the provided config.
func NewClient(cfg *config.SerperConfig) *Client {
	base := "https://google.serper.dev"
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
		if cfg.BaseURL != "" {
			base = cfg.BaseURL
		}
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: base,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type searchRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num,omitempty"`
}

type searchResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
	Images []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		ImageURL string `json:"imageUrl"`
		Source   string `json:"source"`
	} `json:"images"`
	Videos []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		ImageURL string `json:"imageUrl"`
		Snippet  string `json:"snippet"`
		Source   string `json:"source"`
	} `json:"videos"`
}

// Search queries the configured vertical and returns at most limit results.
// Absent credentials yield an empty list so callers degrade instead of failing.
func (c *Client) Search(ctx context.Context, query string, resultType ResultType, limit int) ([]Resource, error) {
	if c.apiKey == "" {
		return []Resource{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	b, err := json.Marshal(searchRequest{Query: query, Num: limit})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/" + string(resultType)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("serper returned status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}

	return normalize(&sr, resultType, limit), nil
}

func normalize(sr *searchResponse, resultType ResultType, limit int) []Resource {
	out := make([]Resource, 0, limit)

	switch resultType {
	case ResultTypeImages:
		for _, it := range sr.Images {
			out = append(out, Resource{Title: it.Title, Link: it.Link, ImageURL: it.ImageURL, Source: it.Source})
		}
	case ResultTypeVideos:
		for _, it := range sr.Videos {
			out = append(out, Resource{Title: it.Title, Link: it.Link, ImageURL: it.ImageURL, Snippet: it.Snippet, Source: it.Source})
		}
	default:
		for _, it := range sr.Organic {
			out = append(out, Resource{Title: it.Title, Link: it.Link, Snippet: it.Snippet})
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
