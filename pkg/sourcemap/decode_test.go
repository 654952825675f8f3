package sourcemap

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"SMGrab/pkg/client"
)

func newTestDecoder() *Decoder {
	return NewDecoder(client.New(5, "smgrab-test/1.0"))
}

func TestDecodeDataURIBase64(t *testing.T) {
	raw := `{"version":3,"sources":["a.js"],"sourcesContent":["hi"]}`
	ref := "data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(raw))

	decoded, err := newTestDecoder().DecodeMap(ref, "https://example.com/app.js")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.js"}, decoded.Doc.Sources)
	require.Len(t, decoded.Doc.SourcesContent, 1)
	require.NotNil(t, decoded.Doc.SourcesContent[0])
	assert.Equal(t, "hi", *decoded.Doc.SourcesContent[0])
	// 内联 map 没有自身地址，基准沿用宿主脚本地址
	assert.Equal(t, "https://example.com/app.js", decoded.BaseURL)
	assert.NotEmpty(t, decoded.Hash)
}

func TestDecodeDataURIPlainJSON(t *testing.T) {
	ref := `data:application/json,{"version":3,"sources":["b.js"]}`

	decoded, err := newTestDecoder().DecodeMap(ref, "https://example.com/app.js")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.js"}, decoded.Doc.Sources)
	assert.Empty(t, decoded.Doc.SourcesContent)
	assert.Empty(t, decoded.Doc.SourceRoot)
}

func TestDecodeDataURINullContentEntry(t *testing.T) {
	ref := `data:application/json,{"sources":["a.js","b.js"],"sourcesContent":["x",null]}`

	decoded, err := newTestDecoder().DecodeMap(ref, "https://example.com/app.js")
	require.NoError(t, err)
	require.Len(t, decoded.Doc.SourcesContent, 2)
	assert.NotNil(t, decoded.Doc.SourcesContent[0])
	assert.Nil(t, decoded.Doc.SourcesContent[1])
}

func TestDecodeDataURIMalformed(t *testing.T) {
	d := newTestDecoder()

	// 缺少逗号
	_, err := d.DecodeMap("data:application/json;base64", "https://example.com/app.js")
	assert.Error(t, err)

	// base64 损坏
	_, err = d.DecodeMap("data:application/json;base64,%%%%", "https://example.com/app.js")
	assert.Error(t, err)

	// 载荷不是 JSON
	_, err = d.DecodeMap("data:application/json,not-json", "https://example.com/app.js")
	assert.Error(t, err)
}

func TestDecodeRemoteMap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/static/app.js.map" {
			w.Write([]byte(`{"version":3,"sourceRoot":"webpack://","sources":["src/a.js"]}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	// 相对引用按脚本地址补全
	decoded, err := newTestDecoder().DecodeMap("app.js.map", server.URL+"/static/app.js")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js"}, decoded.Doc.Sources)
	assert.Equal(t, "webpack://", decoded.Doc.SourceRoot)
	assert.Equal(t, server.URL+"/static/app.js.map", decoded.BaseURL)
}

func TestDecodeRemoteMapNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := newTestDecoder().DecodeMap("missing.js.map", server.URL+"/app.js")
	assert.Error(t, err)
}

func TestDecodeRemoteMapInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not a map</html>"))
	}))
	defer server.Close()

	_, err := newTestDecoder().DecodeMap("app.js.map", server.URL+"/app.js")
	assert.Error(t, err)
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://a.com/x/y.map", ResolveURL("https://a.com/x/app.js", "y.map"))
	assert.Equal(t, "https://b.com/y.map", ResolveURL("https://a.com/x/app.js", "https://b.com/y.map"))
	assert.Equal(t, "https://a.com/y.map", ResolveURL("https://a.com/x/app.js", "/y.map"))
}
