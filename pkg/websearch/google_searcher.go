package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"prescription-chatbot-be/internal/config"
	"prescription-chatbot-be/internal/constant"
	"prescription-chatbot-be/internal/pkg/logger"
	"prescription-chatbot-be/pkg/store"
	"prescription-chatbot-be/pkg/utils"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	cseScope       = "https://www.googleapis.com/auth/cse"
	fetchUserAgent = "Mozilla/5.0"
	moduleName     = "WEB_SEARCH"

	// bytes of a page read before parsing; the rest is ignored
	defaultPageByteLimit = 4 << 20
)

// Searcher returns up to N pages of plain text for a query. It never fails: when nothing
// could be found the single placeholder result is returned.
type Searcher interface {
	Search(ctx context.Context, query string) []store.WebResult
}

// GoogleSearcher queries the Custom Search JSON API and scrapes each hit
type GoogleSearcher struct {
	BaseURL     string
	APIKey      string
	EngineID    string
	ResultLimit int

	// PageByteLimit caps how much of each fetched page is parsed
	PageByteLimit int64

	searchClient *http.Client
	fetchClient  *http.Client
	logger       logger.ILogger
}

// Ensure GoogleSearcher implements Searcher
var _ Searcher = &GoogleSearcher{}

// NewGoogleSearcher authenticates with a service-account file when one is configured,
// otherwise requests carry the API key.
func NewGoogleSearcher(ctx context.Context, cfg config.SearchConfig, log logger.ILogger) (*GoogleSearcher, error) {
	searchClient := &http.Client{Timeout: 30 * time.Second}

	if cfg.ServiceAccountFile != "" {
		data, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, cseScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account credentials: %w", err)
		}
		searchClient = oauth2.NewClient(ctx, creds.TokenSource)
	}

	limit := cfg.ResultLimit
	if limit <= 0 {
		limit = constant.WebResultLimit
	}
	timeout := time.Duration(cfg.FetchTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &GoogleSearcher{
		BaseURL:       cfg.BaseURL,
		APIKey:        cfg.APIKey,
		EngineID:      cfg.EngineID,
		ResultLimit:   limit,
		PageByteLimit: defaultPageByteLimit,
		searchClient:  searchClient,
		fetchClient:   &http.Client{Timeout: timeout},
		logger:        log,
	}, nil
}

type cseResponse struct {
	Items []struct {
		Link  string `json:"link"`
		Title string `json:"title"`
	} `json:"items"`
}

func (s *GoogleSearcher) Search(ctx context.Context, query string) []store.WebResult {
	s.logger.Info(moduleName, "Searching the web", map[string]interface{}{"query": query})

	// 1. Ask the search engine for links
	links, err := s.searchLinks(ctx, query)
	if err != nil {
		s.logger.Error(moduleName, "Custom search failed", map[string]interface{}{"error": err.Error()})
		return []store.WebResult{Placeholder()}
	}
	if len(links) == 0 {
		s.logger.Info(moduleName, "No search results found", map[string]interface{}{"query": query})
	}

	// 2. Fetch every page; failures are skipped
	var results []store.WebResult
	for _, link := range links {
		text, err := s.fetchText(ctx, link)
		if err != nil {
			s.logger.Warn(moduleName, "Error fetching page", map[string]interface{}{
				"url":   link,
				"error": err.Error(),
			})
			continue
		}
		results = append(results, store.WebResult{Text: text, URL: link})
	}

	if len(results) == 0 {
		return []store.WebResult{Placeholder()}
	}
	return results
}

func (s *GoogleSearcher) searchLinks(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("cx", s.EngineID)
	params.Set("num", strconv.Itoa(s.ResultLimit))
	if s.APIKey != "" {
		params.Set("key", s.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.searchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed cseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	links := make([]string, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		links = append(links, item.Link)
		if len(links) == s.ResultLimit {
			break
		}
	}
	return links, nil
}

func (s *GoogleSearcher) fetchText(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := s.fetchClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	text, err := HTMLToText(io.LimitReader(resp.Body, s.PageByteLimit))
	if err != nil {
		return "", err
	}
	return utils.Truncate(text, constant.WebPageTextLimit), nil
}
