package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/deptiers/pkg/errors"
	"github.com/matzehuels/deptiers/pkg/graph"
	"github.com/matzehuels/deptiers/pkg/store"
)

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeLayout(t *testing.T, rec *httptest.ResponseRecorder) graph.Layout {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	l, err := graph.UnmarshalLayout(rec.Body.Bytes())
	require.NoError(t, err)
	return l
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestHealth(t *testing.T) {
	rec := do(t, New(Config{}), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestDemo(t *testing.T) {
	l := decodeLayout(t, do(t, New(Config{}), http.MethodGet, "/api/demo", ""))

	assert.Len(t, l.Nodes, 23)
	assert.Len(t, l.Edges, 14)
	assert.False(t, l.Empty)
}

func TestLayout(t *testing.T) {
	body := `[{"name":"a","version":"1","dependencies":{"b":"1"}}]`
	l := decodeLayout(t, do(t, New(Config{}), http.MethodPost, "/api/layout", body))

	require.Len(t, l.Nodes, 2)
	assert.Equal(t, "a", l.Nodes[0].Name)
	assert.Equal(t, 1, l.Nodes[0].Tier)
	assert.Equal(t, 0.0, l.Nodes[0].Y)
	assert.Equal(t, 0, l.Nodes[1].Tier)
	assert.Equal(t, 100.0, l.Nodes[1].Y)
	require.Len(t, l.Edges, 1)
	assert.Equal(t, "a-1-b-1", l.Edges[0].ID)
}

func TestLayoutQueryOptions(t *testing.T) {
	body := `[{"name":"a","version":"1","dependencies":{"b":"1"}}]`
	l := decodeLayout(t, do(t, New(Config{}), http.MethodPost, "/api/layout?axis=horizontal&no_invert", body))

	require.Len(t, l.Nodes, 2)
	assert.Equal(t, "horizontal", l.Options.Axis)
	assert.Equal(t, 300.0, l.Nodes[0].X, "tier 1 column without inversion")
	assert.Equal(t, 0.0, l.Nodes[1].X)
}

func TestLayoutEmpty(t *testing.T) {
	l := decodeLayout(t, do(t, New(Config{}), http.MethodPost, "/api/layout", "[]"))

	assert.True(t, l.Empty)
	assert.Empty(t, l.Nodes)
}

func TestLayoutYAML(t *testing.T) {
	body := "- name: a\n  version: \"1\"\n"
	l := decodeLayout(t, do(t, New(Config{}), http.MethodPost, "/api/layout?format=yaml", body))

	assert.Len(t, l.Nodes, 1)
}

func TestLayoutManifest(t *testing.T) {
	body := `{"name":"web","version":"1.0.0","dependencies":{"react":"^18.2.0"},"devDependencies":{"vite":"^5.0.0"}}`
	l := decodeLayout(t, do(t, New(Config{}), http.MethodPost, "/api/layout?manifest=package.json", body))

	require.Len(t, l.Nodes, 3)
	assert.Equal(t, "web", l.Nodes[0].Name)
	assert.Equal(t, "react", l.Nodes[1].Name)
	assert.Equal(t, "vite", l.Nodes[2].Name)
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", "/api/layout", "{", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"invalid record", "/api/layout", `[{"name":"a"}]`, http.StatusBadRequest, errors.ErrCodeInvalidRecord},
		{"bad axis", "/api/layout?axis=diagonal", "[]", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad flag", "/api/layout?sort=maybe", "[]", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad manifest name", "/api/layout?manifest=../x", "{}", http.StatusBadRequest, errors.ErrCodeInvalidManifest},
		{"unsupported manifest", "/api/layout?manifest=go.mod", "{}", http.StatusNotImplemented, errors.ErrCodeUnsupported},
		{
			"cycle", "/api/layout",
			`[{"name":"a","version":"1","dependencies":{"b":"1"}},{"name":"b","version":"1","dependencies":{"a":"1"}}]`,
			http.StatusUnprocessableEntity, errors.ErrCodeCyclicGraph,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, New(Config{}), http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestRender(t *testing.T) {
	s := New(Config{})

	rec := do(t, s, http.MethodPost, "/api/render?format=dot", `{"demo":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/vnd.graphviz")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "digraph G {"))
	assert.NotEmpty(t, rec.Header().Get("X-Layout-Hash"))

	rec = do(t, s, http.MethodPost, "/api/render?format=csv", `{"records":[{"name":"a","version":"1"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "TIER,PACKAGE,VERSION,DEPS,X,Y\n0,a,1,0,0,0\n", rec.Body.String())
}

func TestRenderErrors(t *testing.T) {
	s := New(Config{})

	rec := do(t, s, http.MethodPost, "/api/render?format=gif", `{"demo":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/render", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/render", `{"input":"/etc/passwd"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "file inputs are not accepted over HTTP")
}

func TestRenderNullRecords(t *testing.T) {
	s := New(Config{})

	for _, body := range []string{`{"records":null}`, `{"records":[]}`} {
		rec := do(t, s, http.MethodPost, "/api/render?format=json", body)
		l := decodeLayout(t, rec)
		assert.True(t, l.Empty, body)
		assert.Empty(t, l.Nodes, body)
	}
}

func TestLabelTemplateNoEnvironment(t *testing.T) {
	t.Setenv("DEPTIERS_MONGO_URI", "mongodb://admin:hunter2@db")
	s := New(Config{})

	for _, label := range []string{
		`{{env "DEPTIERS_MONGO_URI"}}`,
		`{{expandenv "$DEPTIERS_MONGO_URI"}}`,
		`{{repeat 100000000 "x"}}`,
	} {
		rec := do(t, s, http.MethodGet, "/api/demo?label="+url.QueryEscape(label), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, label)
		assert.NotContains(t, rec.Body.String(), "hunter2", label)
		assert.Equal(t, errors.ErrCodeInvalidInput, decodeError(t, rec).Code, label)
	}

	rec := do(t, s, http.MethodGet, "/api/demo?label="+url.QueryEscape(`{{.Name | upper}}`), "")
	l := decodeLayout(t, rec)
	require.NotEmpty(t, l.Nodes)
	assert.Equal(t, strings.ToUpper(l.Nodes[0].Name), l.Nodes[0].Label)
}

func TestSnapshots(t *testing.T) {
	s := New(Config{Store: store.NewMemoryStore()})

	rec := do(t, s, http.MethodPost, "/api/snapshots",
		`{"name":"mine","records":[{"name":"a","version":"1","dependencies":{"b":"1"}}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var snap store.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "mine", snap.Name)
	assert.Equal(t, "/api/snapshots/"+snap.ID, rec.Header().Get("Location"))

	rec = do(t, s, http.MethodGet, "/api/snapshots/"+snap.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dependencies":{"b":"1"}`)

	l := decodeLayout(t, do(t, s, http.MethodGet, "/api/snapshots/"+snap.ID+"/layout", ""))
	assert.Len(t, l.Nodes, 2)

	rec = do(t, s, http.MethodGet, "/api/snapshots?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []store.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = do(t, s, http.MethodDelete, "/api/snapshots/"+snap.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/snapshots/"+snap.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.ErrCodeNotFound, decodeError(t, rec).Code)
}

func TestSnapshotFromManifest(t *testing.T) {
	s := New(Config{})

	rec := do(t, s, http.MethodPost, "/api/snapshots?manifest=package.json&name=site",
		`{"name":"site","version":"2.0.0","dependencies":{"axios":"1.2.0"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var snap store.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "site", snap.Records[0].Name)
}

func TestSnapshotListBadLimit(t *testing.T) {
	rec := do(t, New(Config{}), http.MethodGet, "/api/snapshots?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(errors.ErrCodeInvalidRecord))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(errors.ErrCodeCyclicGraph))
	assert.Equal(t, http.StatusNotFound, StatusFor(errors.ErrCodeNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.ErrCodeInternal))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(""))
}
