package flow_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"upmoney/internal/flow"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := flow.DefaultCatalog()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if c.Len() < 2 {
		t.Fatalf("default catalog has %d questions", c.Len())
	}

	last, _ := c.QuestionAt(c.ClosingIndex())
	for _, opt := range last.Options {
		if opt.Action == flow.ActionAnswer {
			t.Errorf("closing question has a plain answer option %q", opt.Label)
		}
	}

	emailSeen := false
	for i := 0; i < c.Len(); i++ {
		q, _ := c.QuestionAt(i)
		if q.Kind == flow.KindEmail {
			emailSeen = true
		}
	}
	if !emailSeen {
		t.Error("default catalog has no e-mail question")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		catalog flow.Catalog
		want    string
	}{
		{
			name: "empty",
			want: "no questions",
		},
		{
			name: "duplicate id",
			catalog: flow.Catalog{Questions: []flow.Question{
				{ID: "q", Prompt: "p", Options: []flow.Option{{Label: "a"}}},
				{ID: "q", Prompt: "p", Options: []flow.Option{{Label: "a"}}},
			}},
			want: "duplicate question id",
		},
		{
			name: "choice without options",
			catalog: flow.Catalog{Questions: []flow.Question{
				{ID: "q", Prompt: "p"},
			}},
			want: "no options",
		},
		{
			name: "unknown kind",
			catalog: flow.Catalog{Questions: []flow.Question{
				{ID: "q", Prompt: "p", Kind: "numeric"},
			}},
			want: "unknown kind",
		},
		{
			name: "rule targets unknown question",
			catalog: flow.Catalog{
				Questions: []flow.Question{
					{ID: "q", Prompt: "p", Options: []flow.Option{{Label: "a"}}},
				},
				Rules: []flow.SkipRule{{Target: "ghost", When: "q", Equals: "a"}},
			},
			want: "unknown question",
		},
		{
			name: "rule with both conditions",
			catalog: flow.Catalog{
				Questions: []flow.Question{
					{ID: "a", Prompt: "p", Options: []flow.Option{{Label: "x"}}},
					{ID: "b", Prompt: "p", Options: []flow.Option{{Label: "x"}}},
				},
				Rules: []flow.SkipRule{{Target: "b", When: "a", Equals: "x", NotEquals: "y"}},
			},
			want: "exactly one",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

const catalogYAML = `
questions:
  - id: mood
    prompt: "Como você está hoje?"
    options:
      - label: "Bem"
      - label: "Mais ou menos"
  - id: detail
    prompt: "Quer contar mais?"
    options:
      - label: "Sim"
      - label: "Não"
  - id: contact
    prompt: "Seu e-mail?"
    kind: email
  - id: bye
    prompt: "Obrigado!"
    options:
      - label: "Recomeçar"
        action: restart
rules:
  - target: detail
    when: mood
    equals: "Bem"
`

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := flow.LoadCatalogFile(path)
	if err != nil {
		t.Fatalf("LoadCatalogFile() = %v", err)
	}
	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}
	q, _ := c.QuestionAt(0)
	if q.Kind != flow.KindChoice {
		t.Errorf("mood kind = %q, want choice default", q.Kind)
	}
	if q.Options[0].Action != flow.ActionAnswer {
		t.Errorf("mood option action = %q, want answer default", q.Options[0].Action)
	}
	q, _ = c.QuestionAt(2)
	if q.Kind != flow.KindEmail {
		t.Errorf("contact kind = %q, want email", q.Kind)
	}
	if len(c.Rules) != 1 || c.Rules[0].Target != "detail" {
		t.Errorf("rules = %+v, want one rule on detail", c.Rules)
	}

	// The loaded catalog must drive the engine end to end.
	e := flow.NewEngine(c)
	s := flow.NewSession("tok")
	res := e.Submit(s, "mood", "Bem")
	if res.Next == nil || res.Next.ID != "contact" {
		t.Errorf("after mood=Bem next = %v, want contact (detail skipped)", res.Next)
	}
}

func TestLoadCatalogFileErrors(t *testing.T) {
	if _, err := flow.LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file: want error")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("questions: [{id: q, prompt: p}]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := flow.LoadCatalogFile(bad); err == nil {
		t.Error("invalid catalog: want validation error")
	}
}
