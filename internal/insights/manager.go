package insights

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mosaic-docs/mosaic/internal/models"
)

// Generation configs per analysis type: lower temperature for grounded
// similarity analysis, higher for exploratory insights and dialogue.
var (
	similarityConfig = &GenerationConfig{Temperature: 0.3, TopP: 0.8, TopK: 40, MaxOutputTokens: 2048}
	insightsConfig   = &GenerationConfig{Temperature: 0.7, TopP: 0.9, TopK: 40, MaxOutputTokens: 3072}
	summaryConfig    = &GenerationConfig{Temperature: 0.3, TopP: 0.8, MaxOutputTokens: 256}
)

// Manager generates analyses over search results through a generative model.
type Manager struct {
	client *Client
	logger *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets a logger for operational output.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates an insights manager. apiKey must be non-empty; the
// serving layer should respond 503 instead of constructing a manager without
// a key.
func NewManager(baseURL, apiKey, model string, opts ...Option) (*Manager, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("insights require an API key")
	}
	m := &Manager{
		client: NewClient(baseURL, apiKey, model),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// SimilarityAnalysis explains the connections between selectedText and the
// given search results. The result is the model's JSON structure, or a
// generic fallback shape when the model response was not parseable.
func (m *Manager) SimilarityAnalysis(ctx context.Context, selectedText string, results []*models.SearchResult) (map[string]interface{}, error) {
	prompt := fmt.Sprintf(similarityPrompt, selectedText, buildSimilarityContext(results))
	text, err := m.client.Generate(ctx, prompt, similarityConfig)
	if err != nil {
		return nil, fmt.Errorf("similarity analysis failed: %w", err)
	}
	m.logger.Info("similarity analysis generated", zap.Int("results", len(results)))
	return parseSimilarity(text), nil
}

// Insights generates patterns, contradictions and discoveries for
// selectedText across the library. filenames is the distinct document list
// used for the library overview section of the prompt.
func (m *Manager) Insights(ctx context.Context, selectedText string, results []*models.SearchResult, filenames []string) (map[string]interface{}, error) {
	prompt := fmt.Sprintf(insightsPrompt, selectedText, buildInsightsContext(selectedText, results, filenames))
	text, err := m.client.Generate(ctx, prompt, insightsConfig)
	if err != nil {
		return nil, fmt.Errorf("insights generation failed: %w", err)
	}
	m.logger.Info("insights generated", zap.Int("results", len(results)))
	return parseInsights(text), nil
}

// QuickSummary produces a 2-3 sentence summary of text. Input is truncated
// to 1000 characters to bound token use.
func (m *Manager) QuickSummary(ctx context.Context, text string) (string, error) {
	out, err := m.client.Generate(ctx, fmt.Sprintf(summaryPrompt, truncate(text, 1000)), summaryConfig)
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}
	return out, nil
}

// PodcastScript generates a two-speaker dialogue about selectedText, using
// related search results as supporting context.
func (m *Manager) PodcastScript(ctx context.Context, selectedText string, related []*models.SearchResult) (*models.PodcastScript, error) {
	prompt := fmt.Sprintf(podcastPrompt, selectedText, buildPodcastContext(related))
	text, err := m.client.Generate(ctx, prompt, insightsConfig)
	if err != nil {
		return nil, fmt.Errorf("podcast script generation failed: %w", err)
	}
	script, ok := parsePodcastScript(text)
	if !ok {
		return nil, fmt.Errorf("model returned no usable dialogue segments")
	}
	m.logger.Info("podcast script generated",
		zap.String("title", script.Title),
		zap.Int("segments", len(script.Segments)))
	return script, nil
}
