package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultMaxBytes  = 5 * 1024 * 1024
	defaultMaxChars  = 10000
	defaultUserAgent = "Mozilla/5.0 (compatible; AwesomeSOS/1.0; +https://awesomesos.com)"
)

// PageContent is the stripped-down result of fetching a webpage.
type PageContent struct {
	URL       string
	Title     string
	Text      string
	Truncated bool
}

// FetchError is a structured fetch failure with an HTTP-style status so the
// handler can distinguish client error vs timeout vs server error.
type FetchError struct {
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	return e.Message
}

type Service struct {
	logger    *slog.Logger
	client    *http.Client
	timeout   time.Duration
	maxBytes  int64
	maxChars  int
	userAgent string
}

func NewService(logger *slog.Logger, timeout time.Duration, maxBytes int64, maxChars int, userAgent string) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Service{
		logger:    logger,
		client:    &http.Client{},
		timeout:   timeout,
		maxBytes:  maxBytes,
		maxChars:  maxChars,
		userAgent: userAgent,
	}
}

// Fetch retrieves a user-supplied URL under safety limits and strips the HTML
// to plain text plus the page title. Validation failures make no network call.
func (s *Service) Fetch(ctx context.Context, rawURL string) (*PageContent, *FetchError) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &FetchError{Status: http.StatusBadRequest, Message: "Invalid URL format"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, &FetchError{Status: http.StatusBadRequest, Message: "Invalid URL format"}
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &FetchError{Status: http.StatusRequestTimeout, Message: "Request timed out. The page took too long to load."}
		}
		s.logger.WarnContext(ctx, "URL fetch failed", slog.String("url", parsed.String()), slog.Any("error", err))
		return nil, &FetchError{Status: http.StatusBadRequest, Message: "Failed to fetch URL"}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("Failed to fetch URL: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "text/plain") {
		return nil, &FetchError{Status: http.StatusBadRequest, Message: "URL does not appear to be a webpage (invalid content type)"}
	}

	if resp.ContentLength > s.maxBytes {
		return nil, &FetchError{Status: http.StatusBadRequest, Message: "Page is too large to process (over 5MB)"}
	}

	// The header can lie or be absent, so the body read is capped regardless.
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &FetchError{Status: http.StatusRequestTimeout, Message: "Request timed out. The page took too long to load."}
		}
		return nil, &FetchError{Status: http.StatusBadRequest, Message: "Failed to read page content"}
	}

	title, text := extractText(string(body))
	truncated := false
	if len(text) > s.maxChars {
		text = truncateAtRune(text, s.maxChars) + "..."
		truncated = true
	}

	s.logger.DebugContext(ctx, "URL content extracted",
		slog.String("url", parsed.String()),
		slog.Int("title_length", len(title)),
		slog.Int("content_length", len(text)),
	)

	return &PageContent{
		URL:       parsed.String(),
		Title:     title,
		Text:      text,
		Truncated: truncated,
	}, nil
}

// extractText pulls the first <title> text node and the visible body text,
// skipping script and style subtrees and collapsing whitespace runs.
func extractText(rawHTML string) (title, text string) {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))
	var sb strings.Builder
	var skipDepth int
	var inTitle bool

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return title, collapseWhitespace(sb.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style":
				skipDepth++
			case "title":
				inTitle = true
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style":
				if skipDepth > 0 {
					skipDepth--
				}
			case "title":
				inTitle = false
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			t := string(tokenizer.Text())
			if inTitle {
				if title == "" {
					title = strings.TrimSpace(t)
				}
				continue
			}
			sb.WriteString(t)
			sb.WriteByte(' ')
		}
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateAtRune cuts s to at most max bytes without splitting a
// multi-byte rune at the boundary.
func truncateAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
