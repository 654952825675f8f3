package sourcemap

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"SMGrab/pkg/client"
	"SMGrab/pkg/models"
)

func strPtr(s string) *string { return &s }

func collect(r *Recoverer, doc *models.SourceMapDocument, base string) []models.RecoveredSource {
	var items []models.RecoveredSource
	r.Recover(doc, base, func(item models.RecoveredSource) bool {
		items = append(items, item)
		return true
	})
	return items
}

func TestRecoverPrefersEmbeddedContent(t *testing.T) {
	var fetches int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		w.Write([]byte("should not be used"))
	}))
	defer server.Close()

	doc := &models.SourceMapDocument{
		Sources:        []string{"webpack:///src/x.js"},
		SourcesContent: []*string{strPtr("console.log(1)")},
	}

	r := NewRecoverer(client.New(5, "smgrab-test/1.0"))
	items := collect(r, doc, server.URL+"/app.js.map")

	require.Len(t, items, 1)
	assert.Equal(t, "src/x.js", items[0].Path)
	assert.Equal(t, "console.log(1)", string(items[0].Content))
	assert.True(t, items[0].Embedded)
	// 有内嵌内容时绝不发起网络请求
	assert.Equal(t, int32(0), atomic.LoadInt32(&fetches))
}

func TestRecoverFetchesWhenContentAbsent(t *testing.T) {
	var fetches int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		switch r.URL.Path {
		case "/src/a.js":
			http.NotFound(w, r)
		case "/src/b.js":
			w.Write([]byte("export const b = 2"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	doc := &models.SourceMapDocument{
		Sources: []string{"src/a.js", "src/b.js"},
	}

	r := NewRecoverer(client.New(5, "smgrab-test/1.0"))
	var skipped []string
	r.OnSkip = func(source, reason string) { skipped = append(skipped, source) }

	items := collect(r, doc, server.URL+"/app.js.map")

	// 每个源恰好尝试一次；a.js 的 404 不影响 b.js 的还原
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))
	require.Len(t, items, 1)
	assert.Equal(t, "src/b.js", items[0].Path)
	assert.Equal(t, "export const b = 2", string(items[0].Content))
	assert.False(t, items[0].Embedded)
	assert.Equal(t, []string{"src/a.js"}, skipped)
}

func TestRecoverSkipsEmptyEmbeddedWithoutFetch(t *testing.T) {
	var fetches int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
	}))
	defer server.Close()

	doc := &models.SourceMapDocument{
		Sources:        []string{"x.js"},
		SourcesContent: []*string{strPtr("")},
	}

	r := NewRecoverer(client.New(5, "smgrab-test/1.0"))
	items := collect(r, doc, server.URL+"/app.js.map")

	assert.Empty(t, items)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fetches))
}

func TestRecoverAppliesSourceRoot(t *testing.T) {
	doc := &models.SourceMapDocument{
		SourceRoot:     "/app/",
		Sources:        []string{"src/x.js"},
		SourcesContent: []*string{strPtr("var x")},
	}

	r := NewRecoverer(client.New(5, "smgrab-test/1.0"))
	items := collect(r, doc, "https://example.com/app.js.map")

	require.Len(t, items, 1)
	assert.Equal(t, "app/src/x.js", items[0].Path)
}

func TestRecoverContentIndexBeyondLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/b.js" {
			w.Write([]byte("fetched b"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	// sourcesContent 比 sources 短，超出部分按缺失处理
	doc := &models.SourceMapDocument{
		Sources:        []string{"a.js", "b.js"},
		SourcesContent: []*string{strPtr("embedded a")},
	}

	r := NewRecoverer(client.New(5, "smgrab-test/1.0"))
	items := collect(r, doc, server.URL+"/app.js.map")

	require.Len(t, items, 2)
	assert.Equal(t, "embedded a", string(items[0].Content))
	assert.Equal(t, "fetched b", string(items[1].Content))
}

func TestRecoverYieldFalseStops(t *testing.T) {
	doc := &models.SourceMapDocument{
		Sources:        []string{"a.js", "b.js"},
		SourcesContent: []*string{strPtr("a"), strPtr("b")},
	}

	r := NewRecoverer(client.New(5, "smgrab-test/1.0"))
	count := 0
	r.Recover(doc, "https://example.com/app.js.map", func(item models.RecoveredSource) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestHashStable(t *testing.T) {
	assert.Equal(t, Hash([]byte("abc")), Hash([]byte("abc")))
	assert.NotEqual(t, Hash([]byte("abc")), Hash([]byte("abd")))
	assert.Len(t, Hash([]byte("abc")), 8)
}
