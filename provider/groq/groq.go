package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// SupportedModels is the fixed enumeration accepted by the plan endpoint.
var SupportedModels = []string{
	"llama3-70b-8192",
	"llama3-8b-8192",
	"llama-3.1-8b-instant",
	"llama-3.3-70b-versatile",
	"gemma2-9b-it",
}

// IsSupportedModel reports whether model belongs to the fixed enumeration.
func IsSupportedModel(model string) bool {
	for _, m := range SupportedModels {
		if m == model {
			return true
		}
	}
	return false
}

// Client calls a Groq (OpenAI-compatible) chat-completions API to generate
// plan steps.
type Client struct {
	apiKey       string
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

func New(apiKey, baseURL, defaultModel string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if defaultModel == "" {
		defaultModel = SupportedModels[0]
	}
	return &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		defaultModel: defaultModel,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateSteps asks the model for 3-5 practical steps toward the goal and
// parses them out of the response.
func (c *Client) GenerateSteps(ctx context.Context, goal, promptContext, model string) ([]string, error) {
	if model == "" {
		model = c.defaultModel
	}

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []message{
			{Role: "system", Content: "You are an expert project planner. You give concrete, practical steps."},
			{Role: "user", Content: buildPrompt(goal, promptContext)},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call step provider: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("step provider returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("step provider returned no choices")
	}
	return ParseSteps(parsed.Choices[0].Message.Content), nil
}

func buildPrompt(goal, promptContext string) string {
	return fmt.Sprintf(`The user wants to: %q

Generate a list of 3-5 MAIN PRACTICAL steps to reach this goal.

IMPORTANT RULES:
1. Steps must be SPECIFIC to the goal, not generic
2. Each step describes a real activity or phase of the process
3. Order the steps logically, from start to finish
4. Use professional terminology appropriate for the field
5. Steps must be actions doable with AI tools

%s

Return ONLY JSON in this format:
{"steps":[{"task":"specific step 1"}, {"task":"specific step 2"}, ...]}

Do NOT give generic steps like "Clarify the requirements", "Find tools", "Prepare the result".`, goal, promptContext)
}

var stepPrefixRE = regexp.MustCompile(`^[\s\-*•\d.)]+`)

// ParseSteps extracts step strings from the model output: a JSON payload of
// {"steps":[{"task":...}]} when possible, otherwise a line-by-line scan.
func ParseSteps(content string) []string {
	var payload struct {
		Steps []struct {
			Task string `json:"task"`
		} `json:"steps"`
	}
	content = strings.TrimSpace(content)
	if err := json.Unmarshal([]byte(content), &payload); err == nil && len(payload.Steps) > 0 {
		out := make([]string, 0, len(payload.Steps))
		for _, s := range payload.Steps {
			if t := strings.TrimSpace(s.Task); t != "" {
				out = append(out, t)
			}
		}
		return out
	}

	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = stepPrefixRE.ReplaceAllString(strings.TrimSpace(line), "")
		if line == "" || strings.HasPrefix(line, "{") || strings.HasPrefix(line, "[") {
			continue
		}
		out = append(out, line)
	}
	return out
}
