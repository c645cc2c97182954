package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelar0/kinmap"
	"github.com/avelar0/kinmap/pkg/adapters/memory"
	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/avelar0/kinmap/pkg/runner"
)

// script builds an NDJSON input stream from commands.
func script(t *testing.T, cmds ...runner.Command) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, cmd := range cmds {
		require.NoError(t, enc.Encode(cmd))
	}
	return &buf
}

func params(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func responses(t *testing.T, out *bytes.Buffer) []runner.Response {
	t.Helper()
	var resps []runner.Response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var resp runner.Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		resps = append(resps, resp)
	}
	return resps
}

func TestRunner_EditSession(t *testing.T) {
	editor := kinmap.New()
	defer editor.Close()

	in := script(t,
		runner.Command{Action: "add_person", Params: params(t, domain.Person{ID: "ana", Name: "Ana"})},
		runner.Command{Action: "add_person", Params: params(t, domain.Person{ID: "bruno", Name: "Bruno"})},
		runner.Command{Action: "connect", Params: params(t, map[string]string{
			"originId": "ana", "kind": "partner", "targetId": "bruno",
		})},
		runner.Command{Action: "get_document"},
	)
	var out bytes.Buffer

	r := runner.New(editor, runner.WithHandler(runner.NewJSONHandler(in, &out)))
	require.NoError(t, r.Run(context.Background()))

	resps := responses(t, &out)
	require.Len(t, resps, 4)
	for i, resp := range resps {
		assert.True(t, resp.OK, "response %d: %+v", i, resp)
	}

	doc := editor.Document()
	assert.Len(t, doc.People, 2)
	require.Len(t, doc.Relationships, 1)
	assert.Equal(t, domain.KindPartner, doc.Relationships[0].Kind)
}

func TestRunner_ErrorsAreReportedNotFatal(t *testing.T) {
	editor := kinmap.New()
	defer editor.Close()

	in := script(t,
		runner.Command{Action: "delete_person", Params: params(t, map[string]string{"id": "ghost"})},
		runner.Command{Action: "fly_to_the_moon"},
		runner.Command{Action: "add_person", Params: params(t, domain.Person{Name: "Ana"})},
	)
	var out bytes.Buffer

	r := runner.New(editor, runner.WithHandler(runner.NewJSONHandler(in, &out)))
	require.NoError(t, r.Run(context.Background()))

	resps := responses(t, &out)
	require.Len(t, resps, 3)
	assert.False(t, resps[0].OK)
	assert.Contains(t, resps[1].Error, "unknown action")
	assert.True(t, resps[2].OK)
	assert.Len(t, editor.Document().People, 1)
}

func TestRunner_ChildAttachmentNeedsExplicitCompletion(t *testing.T) {
	editor := kinmap.New()
	defer editor.Close()

	in := script(t,
		runner.Command{Action: "add_person", Params: params(t, domain.Person{ID: "ana", Name: "Ana"})},
		runner.Command{Action: "add_person", Params: params(t, domain.Person{ID: "duda", Name: "Duda"})},
		runner.Command{Action: "connect", Params: params(t, map[string]string{
			"originId": "duda", "kind": "parent", "targetId": "ana",
		})},
		runner.Command{Action: "attach_child", Params: params(t, map[string]string{
			"option": "single_parent",
		})},
	)
	var out bytes.Buffer

	r := runner.New(editor, runner.WithHandler(runner.NewJSONHandler(in, &out)))
	require.NoError(t, r.Run(context.Background()))

	resps := responses(t, &out)
	require.Len(t, resps, 4)
	for i, resp := range resps {
		assert.True(t, resp.OK, "response %d: %+v", i, resp)
	}

	doc := editor.Document()
	assert.Len(t, doc.People, 2, "no co-parent is generated")
	require.Len(t, doc.Relationships, 1)
	assert.Equal(t, domain.ChildEdge{SingleParentID: "ana", ChildID: "duda"}, doc.Relationships[0].Edge)
}

func TestRunner_QuitStopsTheLoop(t *testing.T) {
	editor := kinmap.New()
	defer editor.Close()

	in := script(t,
		runner.Command{Action: "quit"},
		runner.Command{Action: "add_person", Params: params(t, domain.Person{Name: "Ana"})},
	)
	var out bytes.Buffer

	r := runner.New(editor, runner.WithHandler(runner.NewJSONHandler(in, &out)))
	require.NoError(t, r.Run(context.Background()))

	// The add_person after quit must never run.
	assert.Empty(t, editor.Document().People)
	assert.Len(t, responses(t, &out), 1)
}

func TestRunner_FlushesToStoreOnExit(t *testing.T) {
	editor := kinmap.New()
	defer editor.Close()
	store := memory.NewStore()

	in := script(t,
		runner.Command{Action: "add_person", Params: params(t, domain.Person{ID: "ana", Name: "Ana"})},
	)
	var out bytes.Buffer

	r := runner.New(editor,
		runner.WithHandler(runner.NewJSONHandler(in, &out)),
		runner.WithStore(store, "case-1"),
	)
	require.NoError(t, r.Run(context.Background()))

	saved, err := store.Load(context.Background(), "case-1")
	require.NoError(t, err)
	assert.Len(t, saved.People, 1)
	assert.False(t, editor.Dirty())
}
