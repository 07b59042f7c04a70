package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AlimanIrawan/zhiji-sub000/internal/config"
	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
)

type OpenAIProvider struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}

	return &OpenAIProvider{
		apiKey:      cfg.OpenAIAPIKey,
		model:       cfg.OpenAIModel,
		maxTokens:   cfg.AIMaxOutputTokens,
		temperature: cfg.AITemperature,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (p *OpenAIProvider) AnalyzeFood(ctx context.Context, req AnalyzeRequest) (AnalyzeResponse, error) {
	requestPayload := chatCompletionsRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Messages:    p.buildMessages(req),
	}

	body, err := json.Marshal(requestPayload)
	if err != nil {
		return AnalyzeResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return AnalyzeResponse{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return AnalyzeResponse{}, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return AnalyzeResponse{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return AnalyzeResponse{}, fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return AnalyzeResponse{}, err
	}
	if len(parsed.Choices) == 0 {
		return AnalyzeResponse{}, fmt.Errorf("openai response does not contain choices")
	}

	return parseAnalysisContent(parsed.Choices[0].Message.Content)
}

func (p *OpenAIProvider) buildMessages(req AnalyzeRequest) []chatMessageRequest {
	userParts := make([]contentPart, 0, 2)

	prompt := "Опиши блюдо и оцени КБЖУ."
	if desc := strings.TrimSpace(req.Description); desc != "" {
		prompt = "Описание от пользователя: " + desc
	}
	if mt := strings.TrimSpace(req.MealType); mt != "" {
		prompt += " Приём пищи: " + mt + "."
	}
	userParts = append(userParts, contentPart{Type: "text", Text: prompt})

	if len(req.ImageData) > 0 {
		mime := req.ImageMime
		if mime == "" {
			mime = "image/jpeg"
		}
		dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(req.ImageData))
		userParts = append(userParts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURLPart{URL: dataURL},
		})
	}

	return []chatMessageRequest{
		{
			Role:    "system",
			Content: systemPromptText,
		},
		{
			Role:    "user",
			Content: userParts,
		},
	}
}

const systemPromptText = "Ты нутрициолог-ассистент приложения для дневника питания. " +
	"Оцени блюдо по описанию и/или фото. Не ставь диагнозы и не заменяй врача. " +
	"Ответь строго одним JSON-объектом без пояснений и без markdown, вида: " +
	`{"food_name":"...","calories":450,"protein_g":30,"carbs_g":40,"fat_g":15,` +
	`"fiber_g":5,"sugar_g":10,"sodium_mg":600,"advice":"..."}. ` +
	"Поля fiber_g, sugar_g, sodium_mg опциональны: опусти их, если не уверен. " +
	"advice — один-два коротких предложения о качестве блюда и что улучшить. " +
	"Все числовые значения — в граммах (натрий в мг), калории в ккал, только неотрицательные."

// parseAnalysisContent разбирает JSON из ответа модели. Терпит обёртку
// в ```-блоки: берётся срез от первой '{' до последней '}'.
func parseAnalysisContent(content string) (AnalyzeResponse, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return AnalyzeResponse{}, fmt.Errorf("openai response does not contain a JSON object")
	}

	var parsed struct {
		FoodName string   `json:"food_name"`
		Calories float64  `json:"calories"`
		ProteinG float64  `json:"protein_g"`
		CarbsG   float64  `json:"carbs_g"`
		FatG     float64  `json:"fat_g"`
		FiberG   *float64 `json:"fiber_g"`
		SugarG   *float64 `json:"sugar_g"`
		SodiumMg *float64 `json:"sodium_mg"`
		Advice   string   `json:"advice"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return AnalyzeResponse{}, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	return AnalyzeResponse{
		FoodName: strings.TrimSpace(parsed.FoodName),
		Nutrition: storage.NutritionInfo{
			Calories: parsed.Calories,
			ProteinG: parsed.ProteinG,
			CarbsG:   parsed.CarbsG,
			FatG:     parsed.FatG,
			FiberG:   parsed.FiberG,
			SugarG:   parsed.SugarG,
			SodiumMg: parsed.SodiumMg,
		},
		Advice: strings.TrimSpace(parsed.Advice),
	}, nil
}

type chatCompletionsRequest struct {
	Model       string               `json:"model"`
	Messages    []chatMessageRequest `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
}

// Content: string для системного сообщения, []contentPart для
// пользовательского (text + image_url).
type chatMessageRequest struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

type imageURLPart struct {
	URL string `json:"url"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
