package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/vinoventas/dashboard/internal/dataset"
	"github.com/vinoventas/dashboard/internal/domain"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// FallbackMessage is shown to the user when the model call fails. Chat
// requests are not retried; the user simply asks again.
const FallbackMessage = "Lo siento, hubo un error al procesar tu pregunta. Por favor intenta de nuevo."

// Reply is the interpreted outcome of one chat turn.
type Reply struct {
	Message string               `json:"mensaje"`
	Filters *domain.FilterConfig `json:"filtros,omitempty"`
}

// Assistant answers analytical questions over the filtered dataset by
// briefing a Gemini model and interpreting its reply.
type Assistant struct {
	model string
}

// New returns an assistant bound to the given model name, or DefaultModel
// when empty.
func New(model string) *Assistant {
	if model == "" {
		model = DefaultModel
	}
	return &Assistant{model: model}
}

// Ask builds the analysis context from the filtered records, sends it with
// the question to the model, and parses any filter directive out of the
// reply. Credentials come from the environment (GEMINI_API_KEY or ADC).
func (a *Assistant) Ask(ctx context.Context, filtered []domain.SaleRecord, vocab dataset.Vocabulary, filters domain.FilterConfig, question string) (*Reply, error) {
	prompt := BuildAnalysisContext(filtered, vocab, filters, question)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("ask: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("ask: generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("ask: empty response from model")
	}

	message, directive := ParseReply(raw, vocab)
	return &Reply{Message: message, Filters: directive}, nil
}
