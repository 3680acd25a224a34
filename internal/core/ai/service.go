package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/MSamoilovic/FormForge-API/config"
)

var (
	ErrUpstream    = errors.New("upstream model request failed")
	ErrEmptyOutput = errors.New("upstream model returned no output")
)

// Generator is the opaque text-generation collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// Service calls a Gemini-style generateContent endpoint and returns the raw
// model text. The upstream is untrusted input; callers are expected to decode
// and validate anything they feed back into the system.
type Service struct {
	client   *http.Client
	endpoint string
	apiKey   string
	model    string
}

func NewService(cfg *config.AIConfig) *Service {
	return &Service{
		client:   &http.Client{Timeout: 60 * time.Second},
		endpoint: defaultEndpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.endpoint, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		// Raw response stays in the log for diagnosis; callers get a
		// generic upstream error.
		log.Printf("ai: upstream returned %d: %s", resp.StatusCode, body)
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Printf("ai: unparseable upstream response: %s", body)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyOutput
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
