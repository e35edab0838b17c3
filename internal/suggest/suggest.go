package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lista-inteligente/internal/llm"
	"lista-inteligente/internal/store"
)

// SuggestionCount is how many product names a single request asks for.
const SuggestionCount = 5

// Suggester generates product name ideas for a category. It is stateless and
// holds no reference to any shopping list session: every call is a one-shot
// request whose result the caller may use, discard or retry.
type Suggester struct {
	textGen llm.TextGenerator
}

// NewSuggester creates a Suggester backed by the given text generator.
func NewSuggester(textGen llm.TextGenerator) *Suggester {
	return &Suggester{textGen: textGen}
}

// Suggest asks the model for product names fitting the category. Failures of
// the underlying call are returned as-is for the caller to surface; no
// partial results are produced.
func (s *Suggester) Suggest(ctx context.Context, category store.Category) ([]string, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidCategory, category)
	}

	prompt := fmt.Sprintf(`
	You are a helpful assistant that suggests product names for a household shopping catalog.
	Suggest %d product names, in Brazilian Portuguese, for the following category: %s

	Return the output as a JSON object with the following structure:
	{
		"suggestions": ["name 1", "name 2", ...]
	}

	Ensure the output is valid JSON. Do not include any other text in your response.
	Return ONLY the raw JSON string. Do not wrap the response in markdown code blocks.
	`, SuggestionCount, category)

	resp, err := s.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to get LLM response: %w", err)
	}

	var parsed struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(resp)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions JSON: %w. LLM Response: %s", err, resp)
	}

	if len(parsed.Suggestions) == 0 {
		return nil, fmt.Errorf("no suggestions generated")
	}

	return parsed.Suggestions, nil
}

// stripCodeFences removes a surrounding markdown code block, which some
// models emit despite instructions not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
