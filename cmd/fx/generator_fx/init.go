package generator_fx

import (
	"log"
	"os"
	"strings"

	"go.uber.org/fx"

	"tripweaver/pkg/utils"
)

var Module = fx.Provide(
	ProvideItineraryGenerator,
	ProvideEmbeddingClient)

// GeneratorConfig holds provider selection for the AI clients.
type GeneratorConfig struct {
	Provider string
	APIKey   string
	Model    string
}

func ProvideItineraryGenerator() (utils.ItineraryGeneratorInterface, error) {
	config := getGeneratorConfig()
	log.Printf("Initializing %s generation client with model: %s", config.Provider, config.Model)
	return utils.NewItineraryGenerator(config.Provider, config.APIKey, config.Model)
}

func ProvideEmbeddingClient() (utils.EmbeddingClientInterface, error) {
	config := getGeneratorConfig()

	switch strings.ToLower(config.Provider) {
	case "openai":
		return utils.NewOpenAIClient(config.APIKey, "")
	default:
		return utils.NewGeminiClient(config.APIKey, config.Model)
	}
}

func getGeneratorConfig() GeneratorConfig {
	provider := getEnvWithDefault("AI_PROVIDER", "gemini")

	var apiKey, model string
	switch strings.ToLower(provider) {
	case "openai":
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini")
	default:
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
	}

	return GeneratorConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
