package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOllama(t *testing.T, handler http.HandlerFunc) (*Ollama, *[]OllamaRequest) {
	t.Helper()
	var seen []OllamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		var req OllamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = append(seen, req)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	o, err := NewOllama(srv.URL+"/", "llama3:latest", testLogger())
	require.NoError(t, err)
	return o, &seen
}

func TestOllamaGenerate(t *testing.T) {
	o, seen := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"model":"llama3:latest","message":{"role":"assistant","content":"a summary"},"done":true}`)
	})

	temp := float32(0.2)
	resp, err := o.Generate(context.Background(), Request{
		Model:             "gemini-2.5-flash",
		SystemInstruction: "be brief",
		Parts:             []Part{{Text: "summarize this"}, {Data: []byte{1, 2, 3}, MIMEType: "image/png"}},
		Temperature:       &temp,
	})
	require.NoError(t, err)
	assert.Equal(t, "a summary", resp.Text())

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, "llama3:latest", req.Model, "configured model wins")
	assert.False(t, req.Stream)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "summarize this", req.Messages[1].Content)
	assert.Equal(t, []string{"AQID"}, req.Messages[1].Images)
	assert.InDelta(t, 0.2, req.Options["temperature"], 0.0001)
}

func TestOllamaGenerateHTTPError(t *testing.T) {
	o, _ := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := o.Generate(context.Background(), Request{Parts: []Part{{Text: "hi"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestOllamaStream(t *testing.T) {
	o, seen := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"Once "},"done":false}`)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"upon "},"done":false}`)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"a time."},"done":false}`)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":""},"done":true}`)
	})

	var chunks []string
	for resp, err := range o.Stream(context.Background(), Request{Parts: []Part{{Text: "story"}}}) {
		require.NoError(t, err)
		chunks = append(chunks, resp.Text())
	}
	assert.Equal(t, []string{"Once ", "upon ", "a time."}, chunks)
	assert.True(t, (*seen)[0].Stream)
}

func TestOllamaStreamErrorChunk(t *testing.T) {
	o, _ := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"Once "},"done":false}`)
		fmt.Fprintln(w, `{"error":"out of memory"}`)
	})

	var gotErr error
	n := 0
	for _, err := range o.Stream(context.Background(), Request{Parts: []Part{{Text: "story"}}}) {
		if err != nil {
			gotErr = err
			break
		}
		n++
	}
	assert.Equal(t, 1, n)
	require.Error(t, gotErr)
	assert.Contains(t, gotErr.Error(), "out of memory")
}

func TestOllamaChatKeepsHistory(t *testing.T) {
	replies := []string{"Hi!", "Fine, thanks."}
	call := 0
	o, seen := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"message":{"role":"assistant","content":%q},"done":true}`, replies[call])
		call++
	})

	chat, err := o.StartChat(context.Background(), ChatRequest{
		SystemInstruction: "You are a helpful and friendly assistant.",
		History:           []Turn{{Role: "user", Text: "earlier"}, {Role: "model", Text: "reply"}},
	})
	require.NoError(t, err)

	resp, err := chat.Send(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi!", resp.Text())

	resp, err = chat.Send(context.Background(), "How are you?")
	require.NoError(t, err)
	assert.Equal(t, "Fine, thanks.", resp.Text())

	second := (*seen)[1].Messages
	roles := make([]string, len(second))
	for i, m := range second {
		roles[i] = m.Role
	}
	assert.Equal(t, []string{"system", "user", "assistant", "user", "assistant", "user"}, roles)
	assert.Equal(t, "How are you?", second[len(second)-1].Content)
}

func TestOllamaUnsupported(t *testing.T) {
	o, err := NewOllama("http://127.0.0.1:1", "llama3", testLogger())
	require.NoError(t, err)

	_, err = o.GenerateImages(context.Background(), ImageRequest{Prompt: "cat"})
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = o.Generate(context.Background(), Request{GoogleSearch: true, Parts: []Part{{Text: "news"}}})
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestSchemaToJSON(t *testing.T) {
	s := &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":  {Type: genai.TypeString},
				"steps": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{"name"},
		},
	}

	got := SchemaToJSON(s)
	assert.Equal(t, "array", got["type"])
	items := got["items"].(map[string]any)
	assert.Equal(t, "object", items["type"])
	assert.Equal(t, []string{"name"}, items["required"])
	props := items["properties"].(map[string]any)
	steps := props["steps"].(map[string]any)
	assert.Equal(t, "string", steps["items"].(map[string]any)["type"])
}
