// services/generator.go - Generative AI client
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Generator produces a structured project artifact from a free-text context.
// The payload is the parsed JSON object exactly as the model returned it; no
// schema validation is performed beyond parse success.
type Generator interface {
	Generate(ctx context.Context, inputContext string) (map[string]interface{}, error)
}

const systemInstruction = `SYSTEM_INSTRUCTION:
You are the DevStory Engine. Analyze the input and return a STRICT JSON object with these keys:
- "story": A 3-paragraph pitch (Problem, Solution, Tech).
- "diagram": A Mermaid.js graph TD string visualizing the architecture. DO NOT USE MARKDOWN CODE BLOCKS. Just the raw string.
- "game_quests": Array of 3 objects {title, instruction, xp} for a demo walkthrough.
- "demo_script": Array of objects {time, action, script} for a 60s video.
- "cheat_sheet": Object {problem_summary, tech_stack_array, innovation_score}.
`

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator calls the Gemini REST API with a strict-JSON system
// instruction and parses the single text part of the first candidate.
type GeminiGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiGenerator() *GeminiGenerator {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultGeminiModel
	}

	baseURL := os.Getenv("GEMINI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	return &GeminiGenerator{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiRequest struct {
	SystemInstruction geminiContent    `json:"system_instruction"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GeminiGenerator) Generate(ctx context.Context, inputContext string) (map[string]interface{}, error) {
	if g.apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not configured")
	}

	reqBody := geminiRequest{
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: systemInstruction}}},
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: "Input Context: " + inputContext}}}},
		GenerationConfig:  generationConfig{ResponseMimeType: "application/json"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call generative service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("generative service error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generative service returned status %d", resp.StatusCode)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("generative service returned no candidates")
	}

	var output map[string]interface{}
	text := parsed.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), &output); err != nil {
		return nil, fmt.Errorf("parse generated JSON: %w", err)
	}

	return output, nil
}
