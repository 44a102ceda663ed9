package assistant

import (
	"encoding/json"
	"strings"

	"github.com/vinoventas/dashboard/internal/dataset"
	"github.com/vinoventas/dashboard/internal/domain"
)

const (
	directiveOpen  = "<FILTROS>"
	directiveClose = "</FILTROS>"
)

// ParseReply splits a model reply into the user-visible message and the
// embedded filter directive, if any. The directive must be a complete
// five-field filter whose every value passes vocabulary validation; any
// violation rejects the whole block and the reply is returned untouched
// with a nil filter. Only the first directive block is honored.
func ParseReply(reply string, vocab dataset.Vocabulary) (string, *domain.FilterConfig) {
	start := strings.Index(reply, directiveOpen)
	if start == -1 {
		return reply, nil
	}
	rest := reply[start+len(directiveOpen):]
	end := strings.Index(rest, directiveClose)
	if end == -1 {
		return reply, nil
	}
	payload := strings.TrimSpace(rest[:end])

	f, ok := decodeDirective(payload)
	if !ok || !vocab.ValidFilter(f) {
		return reply, nil
	}

	message := strings.TrimSpace(reply[:start] + rest[end+len(directiveClose):])
	return message, &f
}

func decodeDirective(payload string) (domain.FilterConfig, bool) {
	var f domain.FilterConfig
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return domain.FilterConfig{}, false
	}
	// All five keys must be present and non-empty.
	if f.Year == "" || f.Month == "" || f.Salesperson == "" || f.Brand == "" || f.Product == "" {
		return domain.FilterConfig{}, false
	}
	return f, true
}
