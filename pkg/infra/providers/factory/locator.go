package factory

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/NeuralTrust/TrustMod/pkg/infra/bedrock"
	"github.com/NeuralTrust/TrustMod/pkg/infra/httpx"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers/anthropic"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers/azure"
	bedrockProvider "github.com/NeuralTrust/TrustMod/pkg/infra/providers/bedrock"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers/gemini"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers/keyword"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers/llm"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers/openai"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers/openaimod"
)

const (
	ProviderOpenAI             = "openai"
	ProviderGoogle             = "google"
	ProviderAnthropic          = "anthropic"
	ProviderOpenAIModeration   = "openai_moderation"
	ProviderAzureContentSafety = "azure_content_safety"
	ProviderBedrockGuardrail   = "bedrock_guardrail"
	ProviderKeyword            = "keyword"
)


type ProviderLocator interface {
	Get(kind string) (providers.Provider, error)
}

type Option func(*providerLocator)

func WithAzureCredential(credential azcore.TokenCredential) Option {
	return func(l *providerLocator) {
		l.azureCredential = credential
	}
}

func WithBedrockClient(client bedrock.Client) Option {
	return func(l *providerLocator) {
		l.bedrockClient = client
	}
}

type providerLocator struct {
	httpClient      httpx.Client
	azureCredential azcore.TokenCredential
	bedrockClient   bedrock.Client
}

func NewProviderLocator(httpClient httpx.Client, opts ...Option) ProviderLocator {
	l := &providerLocator{
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (f *providerLocator) Get(kind string) (providers.Provider, error) {
	switch kind {
	case ProviderOpenAI:
		return llm.NewClassifier(kind, openai.NewOpenaiClient()), nil
	case ProviderGoogle:
		return llm.NewClassifier(kind, gemini.NewGeminiClient()), nil
	case ProviderAnthropic:
		return llm.NewClassifier(kind, anthropic.NewAnthropicClient()), nil
	case ProviderOpenAIModeration:
		return openaimod.NewProvider(f.httpClient), nil
	case ProviderAzureContentSafety:
		return azure.NewContentSafetyProvider(f.httpClient, f.azureCredential), nil
	case ProviderBedrockGuardrail:
		if f.bedrockClient == nil {
			return nil, fmt.Errorf("bedrock client is not configured")
		}
		return bedrockProvider.NewGuardrailProvider(f.bedrockClient), nil
	case ProviderKeyword:
		return keyword.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", kind)
	}
}
