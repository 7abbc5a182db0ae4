// Package gemini is a minimal REST client for the generative-language API,
// used by the chat overlay. It keeps no conversation state of its own; the
// caller passes the session history on every turn.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rountana/page1/config"
	"github.com/rountana/page1/utils"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Conversation roles as the API expects them.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one turn of a conversation.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:     cfg.GeminiAPIKey,
		model:      cfg.GeminiModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate runs one model turn: system prompt, prior history, then the new
// user input. Returns the concatenated text of the first candidate.
func (c *Client) Generate(ctx context.Context, systemPrompt string, history []Message, userInput string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("gemini api key not configured: %w", utils.ErrUpstreamUnavailable)
	}

	reqBody := generateRequest{
		Contents: make([]generateContent, 0, len(history)+1),
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &generateContent{Parts: []generatePart{{Text: systemPrompt}}}
	}
	for _, m := range history {
		reqBody.Contents = append(reqBody.Contents, generateContent{
			Role:  m.Role,
			Parts: []generatePart{{Text: m.Text}},
		})
	}
	reqBody.Contents = append(reqBody.Contents, generateContent{
		Role:  RoleUser,
		Parts: []generatePart{{Text: userInput}},
	})

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to build gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %v: %w", err, utils.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned %d: %s: %w", resp.StatusCode, body, utils.ErrUpstreamUnavailable)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse gemini response: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates: %w", utils.ErrUpstreamUnavailable)
	}

	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}

// HotelFilter is the structured block the chat prompt asks the model to
// emit when the user narrows down hotels.
type HotelFilter struct {
	HotelIDs []string `json:"hotel_ids"`
}

// ParseHotelFilter pulls a hotel-filter JSON object out of a model reply,
// fenced or bare. Returns the reply with the block stripped, the filter,
// and whether one was found.
func ParseHotelFilter(reply string) (string, *HotelFilter, bool) {
	candidate := reply
	remainder := reply

	if start := strings.Index(reply, "```json"); start >= 0 {
		rest := reply[start+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			candidate = rest[:end]
			remainder = reply[:start] + rest[end+3:]
		}
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start < 0 || end <= start {
		return reply, nil, false
	}
	block := candidate[start : end+1]

	var filter HotelFilter
	if err := json.Unmarshal([]byte(block), &filter); err != nil || filter.HotelIDs == nil {
		return reply, nil, false
	}

	if remainder == reply {
		// Bare JSON with no fence: drop just the object.
		remainder = strings.Replace(reply, block, "", 1)
	}
	return strings.TrimSpace(remainder), &filter, true
}
