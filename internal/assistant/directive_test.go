package assistant

import (
	"strings"
	"testing"

	"github.com/vinoventas/dashboard/internal/dataset"
	"github.com/vinoventas/dashboard/internal/domain"
)

func testVocabulary() dataset.Vocabulary {
	return dataset.Vocabulary{
		Years:       []string{"2023", "2024"},
		Months:      append([]string(nil), domain.Months...),
		Salespeople: []string{"Carlos", "Sabrina"},
		Brands:      []string{"Norton", "Trapiche"},
		Products:    []string{"Chardonnay", "Malbec Reserva"},
	}
}

func TestParseReply_NoDirective(t *testing.T) {
	reply := "Las ventas de Enero fueron de $500.00."
	msg, f := ParseReply(reply, testVocabulary())
	if msg != reply {
		t.Errorf("message changed: %q", msg)
	}
	if f != nil {
		t.Errorf("expected nil filter, got %+v", f)
	}
}

func TestParseReply_ValidDirective(t *testing.T) {
	reply := "Listo, apliqué el filtro de Febrero 2023.\n" +
		`<FILTROS>{"año": "2023", "mes": "Febrero", "vendedor": "Todos", "marca": "Todas", "producto": "Todos"}</FILTROS>`

	msg, f := ParseReply(reply, testVocabulary())
	if f == nil {
		t.Fatal("expected a filter directive")
	}
	if f.Year != "2023" || f.Month != "Febrero" {
		t.Errorf("unexpected filter: %+v", f)
	}
	if f.Salesperson != domain.AllValue || f.Brand != domain.AllFeminine || f.Product != domain.AllValue {
		t.Errorf("sentinels not preserved: %+v", f)
	}
	if strings.Contains(msg, "<FILTROS>") || strings.Contains(msg, "</FILTROS>") {
		t.Errorf("directive block not stripped: %q", msg)
	}
	if msg != "Listo, apliqué el filtro de Febrero 2023." {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestParseReply_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"unknown year", `{"año": "1999", "mes": "Todos", "vendedor": "Todos", "marca": "Todas", "producto": "Todos"}`},
		{"unknown salesperson", `{"año": "Todos", "mes": "Todos", "vendedor": "Nadie", "marca": "Todas", "producto": "Todos"}`},
		{"case mismatch", `{"año": "Todos", "mes": "febrero", "vendedor": "Todos", "marca": "Todas", "producto": "Todos"}`},
		{"missing key", `{"año": "2023", "mes": "Febrero", "vendedor": "Todos", "marca": "Todas"}`},
		{"extra key", `{"año": "2023", "mes": "Febrero", "vendedor": "Todos", "marca": "Todas", "producto": "Todos", "ciudad": "Mendoza"}`},
		{"malformed json", `{"año": "2023",`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := "Hecho.\n<FILTROS>" + tt.payload + "</FILTROS>"
			msg, f := ParseReply(reply, testVocabulary())
			if f != nil {
				t.Errorf("expected rejection, got %+v", f)
			}
			// A rejected block leaves the reply untouched.
			if msg != reply {
				t.Errorf("reply was modified: %q", msg)
			}
		})
	}
}

func TestParseReply_UnterminatedBlock(t *testing.T) {
	reply := `Hecho. <FILTROS>{"año": "2023"`
	msg, f := ParseReply(reply, testVocabulary())
	if f != nil || msg != reply {
		t.Errorf("unterminated block should pass through: %q %+v", msg, f)
	}
}

func TestParseReply_FirstDirectiveWins(t *testing.T) {
	reply := `Ok. <FILTROS>{"año": "2023", "mes": "Enero", "vendedor": "Todos", "marca": "Todas", "producto": "Todos"}</FILTROS>` +
		` y también <FILTROS>{"año": "2024", "mes": "Todos", "vendedor": "Todos", "marca": "Todas", "producto": "Todos"}</FILTROS>`

	_, f := ParseReply(reply, testVocabulary())
	if f == nil || f.Year != "2023" || f.Month != "Enero" {
		t.Errorf("expected first directive to win, got %+v", f)
	}
}
