package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campaign_ai_server/internal/ai/prompts"
	"campaign_ai_server/internal/ai/utils"
	"campaign_ai_server/internal/types"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// GenerateCampaign asks the model for one campaign and validates the reply.
// Every failure is a *GenerationError. Exactly one backend call is made when
// the generator is configured, none otherwise.
func (g *Generator) GenerateCampaign(ctx context.Context, input types.CampaignInput, platforms types.PlatformSelection) (*types.CampaignResult, error) {
	if g.cfg.APIKey == "" || g.client == nil {
		g.log.Error("generation requested without API_KEY")
		return nil, configurationError(MissingAPIKeyMessage)
	}

	prompt := prompts.GetCampaignPrompt(input, platforms)
	g.log.Debug("campaign prompt built", zap.Int("prompt_chars", len(prompt)), zap.Any("platforms", platforms))

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		g.log.Error("chat completion failed",
			zap.Error(err),
			zap.Int("status", utils.HTTPStatus(err)),
			zap.Bool("rate_limited", utils.IsRateLimited(err)),
			zap.Duration("latency", time.Since(start)),
		)
		return nil, transportError("chat completion failed", err)
	}

	g.log.Info("chat completion finished",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("latency", time.Since(start)),
	)

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, parseError("model returned empty response", nil)
	}

	llmOutput := resp.Choices[0].Message.Content
	g.log.Debug("raw model output", zap.String("output", llmOutput))

	result, err := ParseCampaign(llmOutput)
	if err != nil {
		g.log.Warn("model output rejected", zap.Error(err))
		return nil, parseError("model output is not a campaign", err)
	}

	if v := result.Violations(platforms); len(v) > 0 {
		g.log.Warn("campaign does not match requested platforms", zap.Strings("violations", v))
	}

	return result, nil
}

type jsonKind int

const (
	jsonString jsonKind = iota
	jsonArray
)

var campaignKeys = []struct {
	name string
	kind jsonKind
}{
	{"author", jsonString},
	{"poweredBy", jsonString},
	{"tweets", jsonArray},
	{"instagram_posts", jsonArray},
	{"linkedin_post", jsonString},
	{"facebook_post", jsonString},
	{"quora_answer", jsonString},
}

// ParseCampaign strictly decodes model output into a CampaignResult. The top
// level must be an object carrying every key with the right JSON type. A null
// array is read as empty; nothing else is repaired.
func ParseCampaign(raw string) (*types.CampaignResult, error) {
	cleaned := []byte(utils.CleanJSONOutput(raw))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(cleaned, &fields); err != nil {
		return nil, fmt.Errorf("output is not a JSON object: %w", err)
	}
	if fields == nil {
		return nil, errors.New("output is not a JSON object: null")
	}

	for _, key := range campaignKeys {
		value, ok := fields[key.name]
		if !ok {
			return nil, fmt.Errorf("missing key %q", key.name)
		}
		value = bytes.TrimSpace(value)
		switch {
		case key.kind == jsonString && (len(value) == 0 || value[0] != '"'):
			return nil, fmt.Errorf("key %q must be a string, got %s", key.name, value)
		case key.kind == jsonArray && !bytes.Equal(value, []byte("null")) && (len(value) == 0 || value[0] != '['):
			return nil, fmt.Errorf("key %q must be an array, got %s", key.name, value)
		}
	}

	var result types.CampaignResult
	if err := json.Unmarshal(cleaned, &result); err != nil {
		return nil, fmt.Errorf("failed to decode campaign: %w", err)
	}
	if result.Tweets == nil {
		result.Tweets = []string{}
	}
	if result.InstagramPosts == nil {
		result.InstagramPosts = []types.InstagramPost{}
	}
	return &result, nil
}
