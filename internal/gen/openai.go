// internal/gen/openai.go
//
// OpenAI-backed implementation of round.Generator.
// Calls the Responses API with a JSON-schema structured output so the model
// answers with exactly the keys we decode. Transport and non-2xx failures
// map to *round.GenerationError; undecodable output maps to
// *round.InvalidContentError. Field bound checks live in the service.

package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wavelength-party/go-server/internal/round"
)

// Config configures the OpenAI generator.
type Config struct {
	APIKey       string
	Model        string
	ResponsesURL string
	HTTPClient   *http.Client
}

// OpenAI implements round.Generator against the OpenAI Responses API.
type OpenAI struct {
	cfg Config
}

// NewOpenAI builds a generator, filling config defaults.
func NewOpenAI(cfg Config) *OpenAI {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = "https://api.openai.com/v1/responses"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &OpenAI{cfg: cfg}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

var anchorsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"leftAnchor":    map[string]any{"type": "string"},
		"rightAnchor":   map[string]any{"type": "string"},
		"spectrumLabel": map[string]any{"type": "string"},
	},
	"required":             []string{"leftAnchor", "rightAnchor", "spectrumLabel"},
	"additionalProperties": false,
}

var clueSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"clue": map[string]any{"type": "string"},
	},
	"required":             []string{"clue"},
	"additionalProperties": false,
}

// Anchors asks the model for opposite spectrum poles for the theme.
func (o *OpenAI) Anchors(ctx context.Context, theme string) (round.Anchors, error) {
	msgs := []message{
		{Role: "system", Content: "You design a single round of a Wavelength-style spectrum guessing game.\n" +
			"Output must match the provided schema keys exactly."},
		{Role: "user", Content: fmt.Sprintf("Theme: %s\n\n"+
			"Return short, clear opposite anchors for a spectrum.\n"+
			"Rules:\n"+
			"- Anchors must be true opposites and broadly understandable.\n"+
			"- Avoid politics unless the theme explicitly demands it.\n"+
			"- Keep anchors 1-4 words each.\n"+
			"- spectrumLabel should be 1-4 words describing what the anchors are about.", theme)},
	}
	var out round.Anchors
	if err := o.parse(ctx, "anchors", anchorsSchema, msgs, &out); err != nil {
		return round.Anchors{}, err
	}
	return out, nil
}

// Clue asks the model for a single clue sentence implying a value near the
// target. The no-numbers rule is a prompt-level policy; the server cannot
// verify it mechanically.
func (o *OpenAI) Clue(ctx context.Context, theme string, a round.Anchors, target int) (string, error) {
	msgs := []message{
		{Role: "system", Content: "You write a single clue for a Wavelength-style guessing round."},
		{Role: "user", Content: fmt.Sprintf("Theme: %s\n"+
			"Spectrum: '%s' (0) <-> '%s' (100)\n"+
			"Target position: %d/100\n\n"+
			"Write ONE sentence as the clue that implies something near the target.\n"+
			"It is best to reference specific scenarios related to the theme.\n"+
			"Some examples are:\n"+
			"Example: If the spectrum is 'Hot' (0) <-> 'Cold' (100) and the target position is 0/100, the clue may be 'Lava' or 'Concrete on a summer day'.\n"+
			"Example: If the spectrum is 'Sandwich' (0) <-> 'Not a Sandwich' (100) and the target position is 50/100, the clue may be 'Hot dog'.\n"+
			"Do NOT mention numbers, percent, target, wheel, slider, or position.\n"+
			"Return JSON with key: clue\n", theme, a.Left, a.Right, target)},
	}
	var out struct {
		Clue string `json:"clue"`
	}
	if err := o.parse(ctx, "clue", clueSchema, msgs, &out); err != nil {
		return "", err
	}
	return out.Clue, nil
}

// parse posts one structured-output request and decodes the model's JSON
// answer into out.
func (o *OpenAI) parse(ctx context.Context, name string, schema map[string]any, msgs []message, out any) error {
	requestBody, err := json.Marshal(map[string]any{
		"model": o.cfg.Model,
		"input": msgs,
		"text": map[string]any{
			"format": map[string]any{
				"type":   "json_schema",
				"name":   name,
				"strict": true,
				"schema": schema,
			},
		},
	})
	if err != nil {
		return &round.GenerationError{Err: fmt.Errorf("marshal %s request: %w", name, err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.ResponsesURL, bytes.NewReader(requestBody))
	if err != nil {
		return &round.GenerationError{Err: fmt.Errorf("build %s request: %w", name, err)}
	}
	req.Header.Set("Content-Type", "application/json")
	// Credential material goes only into the Authorization header and is
	// never echoed in errors.
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	res, err := o.cfg.HTTPClient.Do(req)
	if err != nil {
		return &round.GenerationError{Err: fmt.Errorf("%s request failed: %w", name, err)}
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &round.GenerationError{Err: fmt.Errorf("%s request status %d: %s", name, res.StatusCode, strings.TrimSpace(string(body)))}
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return &round.GenerationError{Err: fmt.Errorf("decode %s response: %w", name, err)}
	}
	outputText := strings.TrimSpace(payload.OutputText)
	if outputText == "" {
		for _, item := range payload.Output {
			for _, content := range item.Content {
				if strings.TrimSpace(content.Text) != "" {
					outputText = strings.TrimSpace(content.Text)
					break
				}
			}
			if outputText != "" {
				break
			}
		}
	}
	if outputText == "" {
		return &round.GenerationError{Err: fmt.Errorf("%s response missing output text", name)}
	}

	if err := json.Unmarshal([]byte(outputText), out); err != nil {
		return &round.InvalidContentError{Details: []string{fmt.Sprintf("parse %s output: %v", name, err)}}
	}
	return nil
}
