package contentcal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, handler func(w http.ResponseWriter, req chatRequest, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeChoice(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
	})
}

func fastRetry() OpenAIOption { return WithHTTPRetry(3, time.Millisecond, 2*time.Millisecond) }

func TestOpenAIInvoker_Success(t *testing.T) {
	var got chatRequest
	var auth string
	srv := chatServer(t, func(w http.ResponseWriter, req chatRequest, r *http.Request) {
		got = req
		auth = r.Header.Get("Authorization")
		writeChoice(w, "Brand Name: Acme")
	})

	inv := NewOpenAIInvoker(srv.URL+"/v1/", WithAPIKey("secret"))
	out, err := inv.Generate(context.Background(), "llama3.2:3b",
		[]*Message{NewSystemMessage("persona"), NewUserMessage("task"), nil, NewUserMessage("")},
		map[string]string{"temperature": "0.9", "maxTokens": "512"})
	require.NoError(t, err)

	assert.Equal(t, "Brand Name: Acme", out)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "llama3.2:3b", got.Model)
	assert.False(t, got.Stream)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.9, *got.Temperature, 1e-6)
	assert.Equal(t, int32(512), got.MaxTokens)
	assert.Equal(t, []chatMessage{{Role: "system", Content: "persona"}, {Role: "user", Content: "task"}}, got.Messages)
}

func TestOpenAIInvoker_NoAuthHeaderWithoutKey(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, _ chatRequest, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeChoice(w, "ok")
	})

	_, err := NewOpenAIInvoker(srv.URL+"/v1").Generate(context.Background(), "m", []*Message{NewUserMessage("hi")}, nil)
	require.NoError(t, err)
}

func TestOpenAIInvoker_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := chatServer(t, func(w http.ResponseWriter, _ chatRequest, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		writeChoice(w, "second time lucky")
	})

	out, err := NewOpenAIInvoker(srv.URL+"/v1", fastRetry()).
		Generate(context.Background(), "m", []*Message{NewUserMessage("hi")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "second time lucky", out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOpenAIInvoker_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := chatServer(t, func(w http.ResponseWriter, _ chatRequest, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad model", http.StatusBadRequest)
	})

	_, err := NewOpenAIInvoker(srv.URL+"/v1", fastRetry()).
		Generate(context.Background(), "m", []*Message{NewUserMessage("hi")}, nil)
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "bad model", se.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenAIInvoker_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := chatServer(t, func(w http.ResponseWriter, _ chatRequest, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := NewOpenAIInvoker(srv.URL+"/v1", WithHTTPRetry(2, time.Millisecond, 2*time.Millisecond)).
		Generate(context.Background(), "m", []*Message{NewUserMessage("hi")}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestOpenAIInvoker_InputErrors(t *testing.T) {
	inv := NewOpenAIInvoker("http://127.0.0.1:0/v1", WithHTTPRetry(0, 0, 0))
	ctx := context.Background()

	_, err := inv.Generate(ctx, "", []*Message{NewUserMessage("hi")}, nil)
	assert.ErrorIs(t, err, ErrModelMissing)

	_, err = inv.Generate(ctx, "m", nil, nil)
	assert.ErrorContains(t, err, "no valid content")

	_, err = inv.Generate(ctx, "m", []*Message{NewUserMessage("hi")}, map[string]string{"temperature": "3"})
	assert.ErrorContains(t, err, "must be between 0.0 and 2.0")
}

func TestOpenAIInvoker_DecodeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIInvoker(srv.URL).Generate(context.Background(), "m", []*Message{NewUserMessage("hi")}, nil)
	assert.ErrorContains(t, err, "no choices")
}

func TestNewOpenAIInvoker_Defaults(t *testing.T) {
	inv := NewOpenAIInvoker("")
	assert.Equal(t, DefaultOllamaEndpoint, inv.endpoint)
	assert.Equal(t, 3, inv.maxRetries)
	assert.Equal(t, 60*time.Second, inv.client.Timeout)

	inv = NewOpenAIInvoker("http://x/v1", WithHTTPRetry(-1, 0, 0), WithHTTPClient(nil))
	assert.Equal(t, 0, inv.maxRetries)
	assert.NotNil(t, inv.client)
}

func TestShouldRetry(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldRetry(ctx, nil))
	assert.True(t, shouldRetry(ctx, &StatusError{StatusCode: 500}))
	assert.True(t, shouldRetry(ctx, &StatusError{StatusCode: 429}))
	assert.False(t, shouldRetry(ctx, &StatusError{StatusCode: 404}))
	assert.True(t, shouldRetry(ctx, errors.Join(errTransport, errors.New("dial"))))
	assert.False(t, shouldRetry(ctx, errors.New("decode")))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.False(t, shouldRetry(cancelled, &StatusError{StatusCode: 503}))
}
