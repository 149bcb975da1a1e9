package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-reldate/internal/config"
)

// Request names a source document and the media types the caller decodes.
type Request struct {
	URL    string
	User   string
	Pass   string
	Accept string
}

// Document is a downloaded source. ContentType is the media type declared
// by the server without parameters, empty when none was sent.
type Document struct {
	io.ReadCloser
	ContentType string
}

// Fetcher downloads rule files and vCard collections.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Document, error)
}

// HTTPFetcher implements Fetcher with net/http.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with the configured timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{Timeout: config.HTTPTimeout},
	}
}

// Fetch downloads req.URL with basic auth when credentials are given.
// Only http and https are allowed and the body is capped at
// config.MaxHTTPResponseSize. Query parameters never reach the logs.
func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) (*Document, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		config.LogKeyComponent, config.CompFetcher,
		config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path,
	)
	log.DebugContext(ctx, config.MsgFetchStart)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRequestBuild, err)
	}
	httpReq.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if req.Accept != "" {
		httpReq.Header.Set(config.HeaderAccept, req.Accept)
	}
	if req.User != "" || req.Pass != "" {
		httpReq.SetBasicAuth(req.User, req.Pass)
	}

	resp, err := f.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.WarnContext(ctx, config.MsgFetchStatus, config.LogKeyStatus, resp.StatusCode)
		return nil, fmt.Errorf("%s: %s", config.ErrHTTPStatus, resp.Status)
	}

	doc := &Document{
		ReadCloser:  limitBody(resp.Body),
		ContentType: mediaType(resp.Header.Get(config.HeaderContentType)),
	}
	log.InfoContext(ctx, config.MsgFetchDone,
		config.LogKeySizeBytes, resp.ContentLength,
		config.LogKeyMedia, doc.ContentType,
	)
	return doc, nil
}

// mediaType strips parameters such as charset. Malformed values yield "".
func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return mt
}

type limitedBody struct {
	io.Reader
	io.Closer
}

func limitBody(body io.ReadCloser) io.ReadCloser {
	return limitedBody{Reader: io.LimitReader(body, config.MaxHTTPResponseSize), Closer: body}
}
