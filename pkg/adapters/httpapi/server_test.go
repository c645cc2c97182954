package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelar0/kinmap"
	"github.com/avelar0/kinmap/pkg/adapters/httpapi"
	"github.com/avelar0/kinmap/pkg/domain"
)

func newAPI(t *testing.T) (*kinmap.Editor, *httptest.Server) {
	t.Helper()
	editor := kinmap.New()
	t.Cleanup(func() { editor.Close() })
	srv := httptest.NewServer(httpapi.NewHandler(editor))
	t.Cleanup(srv.Close)
	return editor, srv
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_PersonLifecycle(t *testing.T) {
	editor, srv := newAPI(t)

	resp := do(t, http.MethodPost, srv.URL+"/people", domain.Person{Name: "Ana", X: 10})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ana := decodeBody[domain.Person](t, resp)
	assert.NotEmpty(t, ana.ID)

	resp = do(t, http.MethodPatch, srv.URL+"/people/"+ana.ID, map[string]any{"name": "Ana Maria"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	doc := editor.Document()
	require.Len(t, doc.People, 1)
	assert.Equal(t, "Ana Maria", doc.People[0].Name)

	resp = do(t, http.MethodDelete, srv.URL+"/people/"+ana.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, editor.Document().People)

	resp = do(t, http.MethodDelete, srv.URL+"/people/p_missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ConnectionFlow(t *testing.T) {
	editor, srv := newAPI(t)

	ana := decodeBody[domain.Person](t, do(t, http.MethodPost, srv.URL+"/people", domain.Person{Name: "Ana"}))
	bruno := decodeBody[domain.Person](t, do(t, http.MethodPost, srv.URL+"/people", domain.Person{Name: "Bruno"}))

	resp := do(t, http.MethodPost, srv.URL+"/connection/start", map[string]string{
		"originId": ana.ID,
		"kind":     "partner",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/connection/commit", map[string]string{"targetId": bruno.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeBody[map[string]any](t, resp)
	assert.Equal(t, true, result["ok"])
	assert.Nil(t, result["decision"])

	assert.Len(t, editor.Document().Relationships, 1)

	// An invalid target reports ok=false without mutating.
	do(t, http.MethodPost, srv.URL+"/connection/start", map[string]string{"originId": ana.ID, "kind": "partner"})
	resp = do(t, http.MethodPost, srv.URL+"/connection/commit", map[string]string{"targetId": ana.ID})
	result = decodeBody[map[string]any](t, resp)
	assert.Equal(t, false, result["ok"])
	assert.Len(t, editor.Document().Relationships, 1)
}

func TestServer_ChildAttachmentOptions(t *testing.T) {
	editor, srv := newAPI(t)

	ana := decodeBody[domain.Person](t, do(t, http.MethodPost, srv.URL+"/people", domain.Person{Name: "Ana"}))
	duda := decodeBody[domain.Person](t, do(t, http.MethodPost, srv.URL+"/people", domain.Person{Name: "Duda"}))

	// Ana has no partners: the commit surfaces the co-parent decision.
	do(t, http.MethodPost, srv.URL+"/connection/start", map[string]string{
		"originId": duda.ID,
		"kind":     "parent",
	})
	resp := do(t, http.MethodPost, srv.URL+"/connection/commit", map[string]string{"targetId": ana.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeBody[map[string]any](t, resp)
	assert.Equal(t, true, result["ok"])
	require.NotNil(t, result["decision"])
	assert.Empty(t, editor.Document().Relationships)

	resp = do(t, http.MethodPost, srv.URL+"/connection/attach", map[string]string{"option": "single_parent"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rel := decodeBody[domain.Relationship](t, resp)
	assert.Equal(t, domain.ChildEdge{SingleParentID: ana.ID, ChildID: duda.ID}, rel.Edge)
	assert.Len(t, editor.Document().Relationships, 1)
}

func TestServer_UndoRedo(t *testing.T) {
	editor, srv := newAPI(t)

	do(t, http.MethodPost, srv.URL+"/people", domain.Person{Name: "Ana"})

	resp := do(t, http.MethodPost, srv.URL+"/undo", nil)
	assert.Equal(t, true, decodeBody[map[string]bool](t, resp)["ok"])
	assert.Empty(t, editor.Document().People)

	resp = do(t, http.MethodPost, srv.URL+"/redo", nil)
	assert.Equal(t, true, decodeBody[map[string]bool](t, resp)["ok"])
	assert.Len(t, editor.Document().People, 1)

	// Nothing left to redo.
	resp = do(t, http.MethodPost, srv.URL+"/redo", nil)
	assert.Equal(t, false, decodeBody[map[string]bool](t, resp)["ok"])
}

func TestServer_DocumentRoundtrip(t *testing.T) {
	editor, srv := newAPI(t)

	do(t, http.MethodPost, srv.URL+"/people", domain.Person{Name: "Ana"})
	doc := decodeBody[domain.Document](t, do(t, http.MethodGet, srv.URL+"/document", nil))
	require.Len(t, doc.People, 1)

	resp := do(t, http.MethodPost, srv.URL+"/document/reset", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, editor.Document().People)

	resp = do(t, http.MethodPut, srv.URL+"/document", doc)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, editor.Document().People, 1)
	assert.False(t, editor.Dirty())
}

func TestServer_Status(t *testing.T) {
	_, srv := newAPI(t)

	status := decodeBody[map[string]any](t, do(t, http.MethodGet, srv.URL+"/status", nil))
	assert.Equal(t, false, status["dirty"])
	assert.Equal(t, false, status["canUndo"])
	assert.Equal(t, 1.0, status["zoom"])
}
