package engine_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-reldate/internal/config"
	"github.com/tartampluch/go-reldate/internal/engine"
)

const ruleFileYAML = "rules:\n  - name: Rent due\n    when: [0, +1, 1]\n"

func fetch(t *testing.T, url string, req engine.Request) (*engine.Document, error) {
	t.Helper()
	req.URL = url
	return engine.NewHTTPFetcher().Fetch(context.Background(), req)
}

func TestHTTPFetcher_RuleFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "Basic auth header should be present")
		assert.Equal(t, "planner", user)
		assert.Equal(t, "s3cret", pass)
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent))
		assert.Equal(t, config.AcceptRules, r.Header.Get(config.HeaderAccept))
		assert.Equal(t, "/shared/rules.yaml", r.URL.Path)

		w.Header().Set(config.HeaderContentType, "application/yaml; charset=utf-8")
		_, _ = io.WriteString(w, ruleFileYAML)
	}))
	defer ts.Close()

	doc, err := fetch(t, ts.URL+"/shared/rules.yaml?token=abc", engine.Request{
		User: "planner", Pass: "s3cret", Accept: config.AcceptRules,
	})
	require.NoError(t, err)
	defer func() { _ = doc.Close() }()

	assert.Equal(t, "application/yaml", doc.ContentType, "Parameters are stripped")
	data, err := io.ReadAll(doc)
	require.NoError(t, err)
	assert.Equal(t, ruleFileYAML, string(data))
}

func TestHTTPFetcher_NoCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := r.BasicAuth()
		assert.False(t, ok, "No auth header without credentials")
		assert.Empty(t, r.Header.Get(config.HeaderAccept))
		_, _ = io.WriteString(w, ruleFileYAML)
	}))
	defer ts.Close()

	doc, err := fetch(t, ts.URL+"/rules.yaml", engine.Request{})
	require.NoError(t, err)
	defer func() { _ = doc.Close() }()
	assert.NotEmpty(t, doc.ContentType, "net/http sniffs a type when none is set")
}

func TestHTTPFetcher_ContentType(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"application/json", "application/json"},
		{"application/json; charset=utf-8", "application/json"},
		{"Application/YAML", "application/yaml"},
		{"text/vcard;charset=utf-8", "text/vcard"},
		{"a b", ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set(config.HeaderContentType, tt.header)
				_, _ = io.WriteString(w, "{}")
			}))
			defer ts.Close()

			doc, err := fetch(t, ts.URL+"/rules", engine.Request{})
			require.NoError(t, err)
			defer func() { _ = doc.Close() }()
			assert.Equal(t, tt.want, doc.ContentType)
		})
	}
}

// TestGenerator_WithHTTPFetcher serves a JSON rule file from a path without
// an extension and vCards from a second path.
func TestGenerator_WithHTTPFetcher(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/rules", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.AcceptRules, r.Header.Get(config.HeaderAccept))
		w.Header().Set(config.HeaderContentType, "application/json")
		_, _ = io.WriteString(w, `{"rules": [
			{"name": "Card", "anchor": "birthday", "when": {"year": 0, "month": 0, "day": "-3"}},
			{"name": "Quarterly", "when": {"year": 0, "month": "+3", "day": 1}}
		]}`)
	})
	mux.HandleFunc("/dav/contacts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.AcceptVCard, r.Header.Get(config.HeaderAccept))
		w.Header().Set(config.HeaderContentType, "text/vcard")
		_, _ = io.WriteString(w, "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Dana\r\nBDAY:1988-07-04\r\nEND:VCARD\r\n")
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	now := time.Date(2025, 5, 20, 7, 0, 0, 0, time.UTC)
	gen := &engine.Generator{Clock: MockClock{CurrentTime: now}, Fetcher: engine.NewHTTPFetcher()}

	_, occurrences, _, err := gen.RunSync(context.Background(), engine.SyncConfig{
		Rules:    webSource(ts.URL + "/api/rules"),
		Contacts: webSource(ts.URL + "/dav/contacts"),
	})
	require.NoError(t, err)
	require.Len(t, occurrences, 2)

	assert.Equal(t, "Card", occurrences[0].Rule)
	assert.Equal(t, "Dana", occurrences[0].Contact)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), occurrences[0].Date)

	assert.Equal(t, "Quarterly", occurrences[1].Rule)
	assert.Equal(t, time.Date(2025, 8, 1, 7, 0, 0, 0, time.UTC), occurrences[1].Date)
}

func TestHTTPFetcher_StatusErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    string
	}{
		{"NotFound", http.StatusNotFound, "404"},
		{"ServerError", http.StatusInternalServerError, "500"},
		{"Unauthorized", http.StatusUnauthorized, "401"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer ts.Close()

			doc, err := fetch(t, ts.URL+"/rules.yaml", engine.Request{Accept: config.AcceptRules})
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.Contains(t, err.Error(), config.ErrHTTPStatus)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = io.WriteString(w, ruleFileYAML)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := engine.NewHTTPFetcher().Fetch(ctx, engine.Request{URL: ts.URL + "/rules.yaml"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), config.ErrNetwork)
}

func TestHTTPFetcher_RejectedURLs(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"Control character", string([]byte{0x7f}), config.ErrInvalidURL},
		{"FTP", "ftp://example.com/rules.yaml", config.ErrProtocol},
		{"File", "file:///etc/rules.yaml", config.ErrProtocol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fetch(t, tt.url, engine.Request{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPFetcher_SizeLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := make([]byte, 1024*1024)
		for i := 0; i < 17; i++ {
			if _, err := w.Write(chunk); err != nil {
				return
			}
		}
	}))
	defer ts.Close()

	doc, err := fetch(t, ts.URL+"/rules.yaml", engine.Request{})
	require.NoError(t, err)
	defer func() { _ = doc.Close() }()

	data, err := io.ReadAll(doc)
	require.NoError(t, err)
	assert.Len(t, data, config.MaxHTTPResponseSize)
}
