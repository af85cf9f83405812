package ai

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// DefaultModel is the hosted model campaigns are generated with.
	DefaultModel = "gemini-2.5-flash"
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
)

// Completer is the slice of the go-openai client the generator needs.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config carries everything the generator needs from the process configuration.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

type Generator struct {
	client Completer
	cfg    Config
	log    *zap.Logger
}

// NewGenerator wires a generator. When backend is nil and an API key is
// configured, a go-openai client pointed at cfg.BaseURL is built.
func NewGenerator(cfg Config, backend Completer, log *zap.Logger) *Generator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	if backend == nil && cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		backend = openai.NewClientWithConfig(clientCfg)
	}
	return &Generator{
		client: backend,
		cfg:    cfg,
		log:    log.Named("ai"),
	}
}

// Model returns the model identifier requests are sent with.
func (g *Generator) Model() string {
	return g.cfg.Model
}
