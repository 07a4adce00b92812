package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnesSym/medical-test/internal/keys"
)

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "llama3-70b-8192",
	"choices": [
		{"index": 0, "message": {"role": "assistant", "content": "hello there"}, "finish_reason": "stop"}
	]
}`

func newRotator(t *testing.T, pool ...string) *keys.Rotator {
	t.Helper()
	r, err := keys.NewRotator(pool)
	require.NoError(t, err)
	return r
}

func TestCompleteRotatesCredentials(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionBody)
	}))
	defer srv.Close()

	c := NewGroqClient(newRotator(t, "key-a", "key-b"), srv.URL)
	msgs := []Message{{Role: "user", Content: "hi"}}
	p := Params{Model: "llama3-70b-8192", Temperature: 0.5, MaxTokens: 500, TopP: 1}

	for i := 0; i < 3; i++ {
		out, err := c.Complete(context.Background(), msgs, p)
		require.NoError(t, err)
		assert.Equal(t, "hello there", out)
	}
	assert.Equal(t, []string{"Bearer key-a", "Bearer key-b", "Bearer key-a"}, seen)
}

func TestCompleteCoercesUnknownRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionBody)
	}))
	defer srv.Close()

	c := NewGroqClient(newRotator(t, "key-a"), srv.URL)
	_, err := c.Complete(context.Background(), []Message{{Role: "robot", Content: "hi"}}, Params{Model: "m"})
	require.NoError(t, err)
}

func TestCompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited", "type": "rate_limit"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGroqClient(newRotator(t, "key-a"), srv.URL)
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, Params{Model: "m"})
	assert.Error(t, err)
}

func TestStreamDeliversFragments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		chunks := []string{
			`{"id":"1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"Hel"}}]}`,
			`{"id":"1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":""}}]}`,
			`{"id":"1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"lo"}}]}`,
		}
		for _, chunk := range chunks {
			io.WriteString(w, "data: "+chunk+"\n\n")
		}
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	c := NewGroqClient(newRotator(t, "key-a"), srv.URL)
	stream, err := c.Stream(context.Background(), []Message{{Role: "user", Content: "hi"}}, Params{Model: "m"})
	require.NoError(t, err)
	defer stream.Close()

	var got []string
	for {
		frag, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, frag)
	}
	assert.Equal(t, []string{"Hel", "", "lo"}, got)
}
