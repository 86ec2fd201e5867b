package fetcher

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(maxBytes int64, maxChars int) *Service {
	return NewService(slog.Default(), 5*time.Second, maxBytes, maxChars, "")
}

func TestFetchURLValidation(t *testing.T) {
	svc := newTestService(0, 0)
	ctx := context.Background()

	t.Run("RejectsNonHTTPScheme", func(t *testing.T) {
		for _, raw := range []string{"ftp://example.com/file", "file:///etc/passwd", "not a url", ""} {
			page, fetchErr := svc.Fetch(ctx, raw)
			assert.Nil(t, page)
			require.NotNil(t, fetchErr)
			assert.Equal(t, http.StatusBadRequest, fetchErr.Status)
			assert.Equal(t, "Invalid URL format", fetchErr.Message)
		}
	})

	t.Run("RejectsMissingHost", func(t *testing.T) {
		page, fetchErr := svc.Fetch(ctx, "https://")
		assert.Nil(t, page)
		require.NotNil(t, fetchErr)
		assert.Equal(t, http.StatusBadRequest, fetchErr.Status)
	})
}

func TestFetchContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	svc := newTestService(0, 0)
	page, fetchErr := svc.Fetch(context.Background(), server.URL)

	assert.Nil(t, page)
	require.NotNil(t, fetchErr)
	assert.Equal(t, http.StatusBadRequest, fetchErr.Status)
	assert.Contains(t, fetchErr.Message, "invalid content type")
}

func TestFetchNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	svc := newTestService(0, 0)
	page, fetchErr := svc.Fetch(context.Background(), server.URL)

	assert.Nil(t, page)
	require.NotNil(t, fetchErr)
	assert.Equal(t, http.StatusBadRequest, fetchErr.Status)
	assert.Contains(t, fetchErr.Message, "404")
}

func TestFetchOversizedPage(t *testing.T) {
	big := strings.Repeat("a", 4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Content-Length", "4096")
		w.Write([]byte(big))
	}))
	defer server.Close()

	svc := newTestService(1024, 0)
	page, fetchErr := svc.Fetch(context.Background(), server.URL)

	assert.Nil(t, page)
	require.NotNil(t, fetchErr)
	assert.Equal(t, http.StatusBadRequest, fetchErr.Status)
	assert.Contains(t, fetchErr.Message, "too large")
}

func TestFetchExtractsTitleAndText(t *testing.T) {
	page := `<html>
		<head><title>Half Dome Day Hike</title><style>body { color: red; }</style></head>
		<body>
			<script>console.log("tracking")</script>
			<h1>Half Dome</h1>
			<p>A strenuous   16 mile round trip
			with cables at the top.</p>
		</body>
	</html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer server.Close()

	svc := newTestService(0, 0)
	result, fetchErr := svc.Fetch(context.Background(), server.URL)

	require.Nil(t, fetchErr)
	require.NotNil(t, result)
	assert.Equal(t, "Half Dome Day Hike", result.Title)
	assert.Contains(t, result.Text, "A strenuous 16 mile round trip with cables at the top.")
	assert.NotContains(t, result.Text, "console.log")
	assert.NotContains(t, result.Text, "color: red")
	assert.False(t, result.Truncated)
}

func TestFetchTruncatesLongText(t *testing.T) {
	body := "<html><body>" + strings.Repeat("word ", 200) + "</body></html>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	}))
	defer server.Close()

	svc := newTestService(0, 100)
	result, fetchErr := svc.Fetch(context.Background(), server.URL)

	require.Nil(t, fetchErr)
	require.NotNil(t, result)
	assert.True(t, result.Truncated)
	assert.True(t, strings.HasSuffix(result.Text, "..."))
	assert.Len(t, result.Text, 103)
}

func TestFetchTruncationKeepsValidUTF8(t *testing.T) {
	// 99 ASCII bytes then multi-byte runes, so a byte-indexed cut at 100
	// would land inside the first rune.
	body := "<html><body>" + strings.Repeat("a", 99) + strings.Repeat("⛰", 4) + "</body></html>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	}))
	defer server.Close()

	svc := newTestService(0, 100)
	result, fetchErr := svc.Fetch(context.Background(), server.URL)

	require.Nil(t, fetchErr)
	require.NotNil(t, result)
	assert.True(t, result.Truncated)
	assert.True(t, utf8.ValidString(result.Text))
	assert.Equal(t, strings.Repeat("a", 99)+"...", result.Text)
}

func TestFetchSendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	svc := NewService(slog.Default(), 5*time.Second, 0, 0, "AwesomeSOS-Test/1.0")
	_, fetchErr := svc.Fetch(context.Background(), server.URL)

	require.Nil(t, fetchErr)
	assert.Equal(t, "AwesomeSOS-Test/1.0", gotUA)
}

func TestExtractTextFirstTitleWins(t *testing.T) {
	title, text := extractText(`<title>First</title><title>Second</title><p>body</p>`)
	assert.Equal(t, "First", title)
	assert.Equal(t, "body", text)
}
