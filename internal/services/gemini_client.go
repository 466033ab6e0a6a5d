package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/vidquiz/vidquiz-backend/internal/logger"
)

const generationFailedPrefix = "AI has failed the Job"

// GeminiClient generates structured quiz drafts from transcript prompts.
type GeminiClient struct {
	log    *logger.Logger
	client *genai.Client
	model  string

	requestTimeout time.Duration
}

func NewGeminiClient(ctx context.Context, log *logger.Logger, apiKey string, model string) (*GeminiClient, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "GeminiClient")
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if strings.TrimSpace(model) == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{
		log:            slog,
		client:         client,
		model:          model,
		requestTimeout: 3 * time.Minute,
	}, nil
}

func (g *GeminiClient) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

// GenerateQuizDraft sends one prompt and parses the model output as a quiz
// draft. Fenced JSON is accepted; anything else that will not parse fails
// the job.
func (g *GeminiClient) GenerateQuizDraft(ctx context.Context, prompt string) (*QuizDraft, error) {
	ctx = defaultCtx(ctx)
	ctx, cancel := context.WithTimeout(ctx, g.requestTimeout)
	defer cancel()

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, newPipelineError(CodeGenerationFailed, fmt.Sprintf("%s: %v", generationFailedPrefix, err), err)
	}

	raw := strings.TrimSpace(extractText(resp))
	if raw == "" {
		return nil, newPipelineError(CodeGenerationFailed, generationFailedPrefix+": Empty response from model.", nil)
	}
	raw = stripJSONFences(raw)

	var draft QuizDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, newPipelineError(CodeGenerationFailed, fmt.Sprintf("%s: %v", generationFailedPrefix, err), err)
	}
	return &draft, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}
	return sb.String()
}

var (
	openingFencePattern = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	closingFencePattern = regexp.MustCompile("\\s*```$")
)

func stripJSONFences(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		t = openingFencePattern.ReplaceAllString(t, "")
		t = closingFencePattern.ReplaceAllString(t, "")
		t = strings.TrimSpace(t)
	}
	return t
}
