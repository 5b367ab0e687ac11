package ankiconnect

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/ankitools/internal/apperr"
)

// fakeAnki serves a canned result per action and records every request.
type fakeAnki struct {
	results map[string]any
	errors  map[string]string
	seen    []Request
}

func (f *fakeAnki) handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/", func(w http.ResponseWriter, req *http.Request) {
		var in Request
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.seen = append(f.seen, in)

		out := map[string]any{"result": f.results[in.Action], "error": nil}
		if msg, ok := f.errors[in.Action]; ok {
			out["result"] = nil
			out["error"] = msg
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
	return r
}

func newFake(t *testing.T, f *fakeAnki) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestDo_SendsEnvelope(t *testing.T) {
	f := &fakeAnki{results: map[string]any{"version": 6}}
	c := newFake(t, f)

	resp, err := c.Do(context.Background(), "version", nil)
	require.NoError(t, err)
	assert.Nil(t, resp.Error)
	assert.JSONEq(t, `6`, string(resp.Result))

	require.Len(t, f.seen, 1)
	assert.Equal(t, "version", f.seen[0].Action)
	assert.Equal(t, Version, f.seen[0].Version)
	assert.NotNil(t, f.seen[0].Params)
}

func TestNotesInfo(t *testing.T) {
	f := &fakeAnki{results: map[string]any{
		"notesInfo": []map[string]any{{
			"noteId":    1727417322608,
			"modelName": "Basic",
			"tags":      []string{"math"},
			"fields": map[string]any{
				"Front": map[string]any{"value": "Q", "order": 0},
				"Back":  map[string]any{"value": "A", "order": 1},
			},
		}},
	}}
	c := newFake(t, f)

	notes, err := c.NotesInfo(context.Background(), []int64{1727417322608})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, int64(1727417322608), notes[0].ID)
	assert.Equal(t, "Basic", notes[0].ModelName)
	assert.Equal(t, []string{"math"}, notes[0].Tags)
	front, ok := notes[0].Field("Front")
	assert.True(t, ok)
	assert.Equal(t, "Q", front)

	ids, ok := f.seen[0].Params["notes"].([]any)
	require.True(t, ok)
	assert.Len(t, ids, 1)
}

func TestFindNotes(t *testing.T) {
	f := &fakeAnki{results: map[string]any{"findNotes": []int64{3, 1, 2}}}
	c := newFake(t, f)

	ids, err := c.FindNotes(context.Background(), "deck:*")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids)
	assert.Equal(t, "deck:*", f.seen[0].Params["query"])
}

func TestInvoke_APIError(t *testing.T) {
	f := &fakeAnki{errors: map[string]string{"notesInfo": "collection is not available"}}
	c := newFake(t, f)

	_, err := c.NotesInfo(context.Background(), []int64{1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrAPI))
	assert.Contains(t, err.Error(), "collection is not available")
}

func TestDo_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second)
	_, err := c.Do(context.Background(), "version", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrUnavailable))
}

func TestDo_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, time.Second).Do(context.Background(), "version", nil)
	assert.True(t, errors.Is(err, apperr.ErrUnavailable))
}

func TestDo_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, time.Second).Do(context.Background(), "version", nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperr.ErrUnavailable))
}
