package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"homyhive/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskForwardsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cancellation policy?", body["query"])
		assert.Equal(t, float64(3), body["k"])

		w.Write([]byte(`{"reply":"Flexible means full refund","source_used":"faq.md","retrieved":[{"id":1}]}`))
	}))
	defer srv.Close()

	k := 3
	answer, err := NewClient(srv.URL, "query", 0).Ask(context.Background(), Query{Query: "cancellation policy?", K: &k})
	require.NoError(t, err)
	assert.Equal(t, "Flexible means full refund", answer.Reply)
	assert.Equal(t, "faq.md", answer.SourceUsed)
	assert.Len(t, answer.Retrieved, 1)
}

func TestAskPrefersAnswerField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer":"A","reply":"B","text":"C"}`))
	}))
	defer srv.Close()

	answer, err := NewClient(srv.URL, "/query", 0).Ask(context.Background(), Query{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, "A", answer.Reply)
	assert.Nil(t, answer.SourceUsed)
}

func TestAskPlainTextReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("just text"))
	}))
	defer srv.Close()

	answer, err := NewClient(srv.URL, "/query", 0).Ask(context.Background(), Query{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, "just text", answer.Reply)
}

func TestAskUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "/query", 0).Ask(context.Background(), Query{Query: "q"})
	assert.True(t, errors.Is(err, domain.ErrGateway))
}
