package gpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c := NewClient("folder-1", "token-1", "yandexgpt-lite")
	c.Endpoint = ts.URL
	return c
}

func replyWith(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp Response
		resp.Result.Alternatives = []struct {
			Message Message `json:"message"`
			Status  string  `json:"status"`
		}{
			{Message: Message{Role: "assistant", Text: text}},
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func TestCompleteSendsAuthAndModel(t *testing.T) {
	var got Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "folder-1", r.Header.Get("x-folder-id"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		replyWith("pong")(w, r)
	})

	reply, err := c.Complete(context.Background(), "be brief", "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", reply)

	assert.Equal(t, "gpt://folder-1/yandexgpt-lite", got.ModelURI)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, Message{Role: "system", Text: "be brief"}, got.Messages[0])
	assert.Equal(t, Message{Role: "user", Text: "ping"}, got.Messages[1])
}

func TestCompleteCarriesHistory(t *testing.T) {
	var got Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		replyWith("reply")(w, r)
	})

	_, err := c.Complete(context.Background(), "", "first")
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), "", "second")
	require.NoError(t, err)

	// Second request carries the first exchange plus the new user turn.
	require.Len(t, got.Messages, 3)
	assert.Equal(t, Message{Role: "user", Text: "first"}, got.Messages[0])
	assert.Equal(t, Message{Role: "assistant", Text: "reply"}, got.Messages[1])
	assert.Equal(t, Message{Role: "user", Text: "second"}, got.Messages[2])
}

func TestHistoryIsBounded(t *testing.T) {
	c := newTestClient(t, replyWith("ok"))
	c.maxHistory = 4

	for i := 0; i < 10; i++ {
		_, err := c.Complete(context.Background(), "", "turn")
		require.NoError(t, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Len(t, c.history, 4)
}

func TestResetClearsHistory(t *testing.T) {
	var got Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		replyWith("ok")(w, r)
	})

	_, err := c.Complete(context.Background(), "", "first")
	require.NoError(t, err)
	c.Reset()
	_, err = c.Complete(context.Background(), "", "second")
	require.NoError(t, err)

	require.Len(t, got.Messages, 1)
	assert.Equal(t, "second", got.Messages[0].Text)
}

func TestCompleteSurfacesAPIErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.Complete(context.Background(), "", "ping")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteRejectsEmptyAlternatives(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{})
	})

	_, err := c.Complete(context.Background(), "", "ping")
	require.Error(t, err)
}
