package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(srv *httptest.Server) *voicePlatformClient {
	return &voicePlatformClient{
		endpoint: srv.URL,
		apiKey:   "test-key",
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func TestReplaceKnowledgeDocumentsRequestShape(t *testing.T) {
	var gotMethod, gotPath, gotKey string
	var gotBody replaceDocumentsPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw := newTestGateway(srv)
	refs := []KnowledgeDocRef{
		{DocumentID: "remote-1", TopK: 3, MinScore: 0.5},
		{DocumentID: "remote-2", TopK: 5, MinScore: 0.7},
	}
	err := gw.ReplaceKnowledgeDocuments(context.Background(), "llm-9", refs, "be helpful")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/llm-configs/llm-9/knowledge-documents", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, refs, gotBody.KnowledgeDocuments)
	assert.Equal(t, "be helpful", gotBody.Prompt)
}

func TestReplaceKnowledgeDocumentsNilRefsSendEmptyList(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw := newTestGateway(srv)
	require.NoError(t, gw.ReplaceKnowledgeDocuments(context.Background(), "llm-9", nil, ""))

	// The platform replaces the whole list, so nil must serialize as [] and
	// not be omitted.
	assert.JSONEq(t, "[]", string(raw["knowledgeDocuments"]))
}

func TestReplaceKnowledgeDocumentsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such llm config", http.StatusNotFound)
	}))
	defer srv.Close()

	gw := newTestGateway(srv)
	err := gw.ReplaceKnowledgeDocuments(context.Background(), "gone", nil, "")
	assert.ErrorIs(t, err, ErrRemoteNotFound)
}

func TestReplaceKnowledgeDocumentsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	gw := newTestGateway(srv)
	err := gw.ReplaceKnowledgeDocuments(context.Background(), "llm-9", nil, "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRemoteNotFound)
	assert.Contains(t, err.Error(), "500")
}
