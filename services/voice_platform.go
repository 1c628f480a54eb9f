// services/voice_platform.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"voicedesk-backend/utils"
)

// ErrRemoteNotFound signals that the remote agent or llm-config no longer
// exists on the voice platform. Callers treat it as recoverable and fall back
// to local-only state.
var ErrRemoteNotFound = errors.New("remote_not_found")

// KnowledgeDocRef is one entry of the full knowledge-document list pushed to
// the platform.
type KnowledgeDocRef struct {
	DocumentID string  `json:"documentId"`
	TopK       int     `json:"topK"`
	MinScore   float64 `json:"minScore"`
}

// VoiceGateway is the only surface that talks to the voice platform's
// configuration API. The platform accepts only full-list replacements, never
// partial diffs, so every call carries the complete authoritative list.
type VoiceGateway interface {
	ReplaceKnowledgeDocuments(ctx context.Context, llmConfigID string, refs []KnowledgeDocRef, prompt string) error
}

type voicePlatformClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewVoicePlatformClient builds the HTTP gateway from VOICE_API_ENDPOINT and
// VOICE_API_KEY.
func NewVoicePlatformClient() VoiceGateway {
	return &voicePlatformClient{
		endpoint: utils.EnvOrDefault("VOICE_API_ENDPOINT", "https://api.voiceplatform.example.com/v1"),
		apiKey:   utils.EnvOrDefault("VOICE_API_KEY", ""),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type replaceDocumentsPayload struct {
	KnowledgeDocuments []KnowledgeDocRef `json:"knowledgeDocuments"`
	Prompt             string            `json:"prompt,omitempty"`
}

func (c *voicePlatformClient) ReplaceKnowledgeDocuments(ctx context.Context, llmConfigID string, refs []KnowledgeDocRef, prompt string) error {
	if refs == nil {
		refs = []KnowledgeDocRef{}
	}
	b, err := json.Marshal(replaceDocumentsPayload{KnowledgeDocuments: refs, Prompt: prompt})
	if err != nil {
		return fmt.Errorf("cannot encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/llm-configs/%s/knowledge-documents", c.endpoint, llmConfigID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrRemoteNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
