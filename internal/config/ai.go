package config

import "os"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// AnswerEval is for per-answer evaluation (needs to be fast)
	AnswerEval string `json:"answerEval"`

	// SessionEval is for end-of-interview evaluation (can be slightly slower)
	SessionEval string `json:"sessionEval"`

	// QuestionGen is for question generation at interview setup (quality over speed)
	QuestionGen string `json:"questionGen"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			// Fast model for real-time scoring
			AnswerEval: getEnvOrDefault("GEMINI_MODEL_EVAL", "gemini-2.5-flash-preview-05-20"),

			// Quality models for setup/wrap-up tasks
			SessionEval: getEnvOrDefault("GEMINI_MODEL_SESSION", "gemini-2.0-flash"),
			QuestionGen: getEnvOrDefault("GEMINI_MODEL_QUESTIONS", "gemini-2.0-flash"),
		},
		TimeoutMS: 10000, // 10 second default timeout
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
