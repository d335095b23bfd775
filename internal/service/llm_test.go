package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatServiceUnavailableWithoutKey(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY_FILE", "")

	s := NewChatService(nil)
	assert.False(t, s.Available())

	_, err := s.Reply(context.Background(), "", "hello")
	assert.ErrorIs(t, err, ErrAIUnavailable)
}

func TestChatServiceReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "hello", req.Messages[len(req.Messages)-1].Content)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "hi there"}},
			},
		})
	}))
	defer srv.Close()

	t.Setenv("DEEPSEEK_API_KEY", "test-key")
	t.Setenv("DEEPSEEK_API_URL", srv.URL)

	s := NewChatService(nil)
	require.True(t, s.Available())

	reply, err := s.Reply(context.Background(), "session-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
}

func TestChatServiceUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	t.Setenv("DEEPSEEK_API_KEY", "test-key")
	t.Setenv("DEEPSEEK_API_URL", srv.URL)

	_, err := NewChatService(nil).Reply(context.Background(), "", "hello")
	assert.Error(t, err)
}
