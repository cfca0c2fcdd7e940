package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prescription-chatbot-be/internal/config"
	"prescription-chatbot-be/internal/pkg/logger"
	"prescription-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSearcher(t *testing.T, searchURL string) *GoogleSearcher {
	t.Helper()
	s, err := NewGoogleSearcher(context.Background(), config.SearchConfig{
		BaseURL:          searchURL,
		APIKey:           "test-key",
		EngineID:         "engine",
		ResultLimit:      3,
		FetchTimeoutSecs: 5,
	}, logger.NewNopLogger())
	require.NoError(t, err)
	return s
}

func TestSearch_FetchesAndStripsPages(t *testing.T) {
	var userAgents []string
	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents = append(userAgents, r.UserAgent())
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(`<html><head><style>p{}</style><script>var x;</script></head><body><h1> Paracetamol </h1><p>Common side effects include nausea.</p></body></html>`))
		case "/long":
			w.Write([]byte("<p>" + strings.Repeat("a", 6000) + "</p>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer pages.Close()

	var gotQuery, gotNum, gotKey string
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotNum = r.URL.Query().Get("num")
		gotKey = r.URL.Query().Get("key")
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{"link": pages.URL + "/ok"},
				{"link": pages.URL + "/missing"},
				{"link": pages.URL + "/long"},
			},
		})
	}))
	defer search.Close()

	results := newTestSearcher(t, search.URL).Search(context.Background(), "paracetamol side effects")

	assert.Equal(t, "paracetamol side effects", gotQuery)
	assert.Equal(t, "3", gotNum)
	assert.Equal(t, "test-key", gotKey)

	require.Len(t, results, 2)
	assert.Equal(t, "Paracetamol Common side effects include nausea.", results[0].Text)
	assert.Equal(t, pages.URL+"/ok", results[0].URL)
	assert.Len(t, []rune(results[1].Text), 5000)

	for _, ua := range userAgents {
		assert.Equal(t, "Mozilla/5.0", ua)
	}
}

func TestSearch_StopsReadingLargePages(t *testing.T) {
	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<p>Take with water.</p>" + strings.Repeat(" ", 512) + "<p>never parsed</p>"))
	}))
	defer pages.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{{"link": pages.URL + "/big"}},
		})
	}))
	defer search.Close()

	s := newTestSearcher(t, search.URL)
	assert.EqualValues(t, 4<<20, s.PageByteLimit)
	s.PageByteLimit = 128

	results := s.Search(context.Background(), "paracetamol")
	require.Len(t, results, 1)
	assert.Equal(t, "Take with water.", results[0].Text)
}

func TestSearch_NoItemsReturnsPlaceholder(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer search.Close()

	results := newTestSearcher(t, search.URL).Search(context.Background(), "anything")

	require.Len(t, results, 1)
	assert.Equal(t, "No additional information found on the web.", results[0].Text)
	assert.Equal(t, "N/A", results[0].URL)
	assert.True(t, IsPlaceholderOnly(results))
}

func TestSearch_SearchErrorReturnsPlaceholder(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusForbidden)
	}))
	defer search.Close()

	results := newTestSearcher(t, search.URL).Search(context.Background(), "anything")
	assert.Equal(t, []store.WebResult{Placeholder()}, results)
}

func TestSearch_RespectsResultLimit(t *testing.T) {
	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<p>page</p>"))
	}))
	defer pages.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items := make([]map[string]string, 5)
		for i := range items {
			items[i] = map[string]string{"link": pages.URL}
		}
		json.NewEncoder(w).Encode(map[string]any{"items": items})
	}))
	defer search.Close()

	results := newTestSearcher(t, search.URL).Search(context.Background(), "q")
	assert.Len(t, results, 3)
}

func TestHTMLToText(t *testing.T) {
	text, err := HTMLToText(strings.NewReader(`<div>  Take <b>two</b> tablets <noscript>enable js</noscript></div>`))
	require.NoError(t, err)
	assert.Equal(t, "Take two tablets", text)
}

func TestIsPlaceholderOnly(t *testing.T) {
	assert.True(t, IsPlaceholderOnly(nil))
	assert.False(t, IsPlaceholderOnly([]store.WebResult{Placeholder(), {Text: "x", URL: "https://x"}}))
}
