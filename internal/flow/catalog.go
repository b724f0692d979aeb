package flow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind tells the engine how to validate a submission for a question.
type Kind string

const (
	// KindChoice questions accept one of the listed options.
	KindChoice Kind = "choice"
	// KindEmail questions accept free text that must look like an e-mail.
	KindEmail Kind = "email"
)

// OptionAction marks an option as a control instead of a plain answer.
// Controls are resolved by the engine as tagged results, so a literal
// answer can never collide with them.
type OptionAction string

const (
	ActionAnswer   OptionAction = "answer"
	ActionRestart  OptionAction = "restart"
	ActionSchedule OptionAction = "schedule"
)

type Option struct {
	Label  string       `yaml:"label" json:"label"`
	Action OptionAction `yaml:"action,omitempty" json:"action,omitempty"`
}

type Question struct {
	ID      string   `yaml:"id" json:"id"`
	Prompt  string   `yaml:"prompt" json:"prompt"`
	Kind    Kind     `yaml:"kind,omitempty" json:"kind"`
	Options []Option `yaml:"options,omitempty" json:"options,omitempty"`
}

// option resolves a submitted label against the question's options.
func (q *Question) option(label string) *Option {
	for i := range q.Options {
		if q.Options[i].Label == label {
			return &q.Options[i]
		}
	}
	return nil
}

// SkipRule advances past Target when the recorded answer to When
// matches. Exactly one of Equals / NotEquals is set; NotEquals only
// fires when an answer for When has been recorded.
type SkipRule struct {
	Target    string `yaml:"target" json:"target"`
	When      string `yaml:"when" json:"when"`
	Equals    string `yaml:"equals,omitempty" json:"equals,omitempty"`
	NotEquals string `yaml:"not_equals,omitempty" json:"not_equals,omitempty"`
}

func (r *SkipRule) matches(answers map[string]string) bool {
	got, ok := answers[r.When]
	if !ok {
		return false
	}
	if r.Equals != "" {
		return got == r.Equals
	}
	if r.NotEquals != "" {
		return got != r.NotEquals
	}
	return false
}

// Catalog is the ordered question set driving one chat flow. It is
// fixed at startup and never mutated afterwards.
type Catalog struct {
	Questions []Question `yaml:"questions" json:"questions"`
	Rules     []SkipRule `yaml:"rules,omitempty" json:"rules,omitempty"`
}

func (c *Catalog) Len() int { return len(c.Questions) }

// QuestionAt returns the question at pos, or false when pos is the
// terminal sentinel (or out of range).
func (c *Catalog) QuestionAt(pos int) (*Question, bool) {
	if pos < 0 || pos >= len(c.Questions) {
		return nil, false
	}
	return &c.Questions[pos], true
}

// ClosingIndex is the position of the closing step. Reaching it is what
// triggers the persist side effect.
func (c *Catalog) ClosingIndex() int { return len(c.Questions) - 1 }

// Validate checks the invariants the engine relies on: at least one
// question, unique non-empty ids, known kinds, options on choice
// questions, and skip rules that reference known questions.
func (c *Catalog) Validate() error {
	if len(c.Questions) == 0 {
		return fmt.Errorf("catalog has no questions")
	}
	seen := make(map[string]bool, len(c.Questions))
	for i := range c.Questions {
		q := &c.Questions[i]
		if q.ID == "" {
			return fmt.Errorf("question %d has an empty id", i)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true

		switch q.Kind {
		case KindChoice, "":
			q.Kind = KindChoice
			if len(q.Options) == 0 {
				return fmt.Errorf("question %q has no options", q.ID)
			}
		case KindEmail:
		default:
			return fmt.Errorf("question %q has unknown kind %q", q.ID, q.Kind)
		}

		for j := range q.Options {
			switch q.Options[j].Action {
			case "", ActionAnswer:
				q.Options[j].Action = ActionAnswer
			case ActionRestart, ActionSchedule:
			default:
				return fmt.Errorf("question %q option %q has unknown action %q",
					q.ID, q.Options[j].Label, q.Options[j].Action)
			}
		}
	}
	for i, r := range c.Rules {
		if !seen[r.Target] {
			return fmt.Errorf("skip rule %d targets unknown question %q", i, r.Target)
		}
		if !seen[r.When] {
			return fmt.Errorf("skip rule %d depends on unknown question %q", i, r.When)
		}
		if (r.Equals == "") == (r.NotEquals == "") {
			return fmt.Errorf("skip rule %d must set exactly one of equals / not_equals", i)
		}
	}
	return nil
}

// LoadCatalogFile reads a catalog override from a YAML file.
func LoadCatalogFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return &c, nil
}

func choices(labels ...string) []Option {
	opts := make([]Option, len(labels))
	for i, l := range labels {
		opts[i] = Option{Label: l, Action: ActionAnswer}
	}
	return opts
}

// AnswerNotYetInvesting is the alreadyInvest option the default skip
// rules key off.
const AnswerNotYetInvesting = "Não, ainda não"

// DefaultCatalog is the built-in upmoney onboarding flow.
func DefaultCatalog() *Catalog {
	c := &Catalog{
		Questions: []Question{
			{
				ID:      "welcome",
				Prompt:  "Oi! 👋 Eu sou o upmoney, seu assistente de educação financeira. Vou te fazer algumas perguntas rápidas (leva menos de 1 minuto) pra entender seu momento.",
				Options: choices("Começar"),
			},
			{
				ID:     "goal",
				Prompt: "Pra começar: qual é seu foco principal hoje?",
				Options: choices(
					"Organizar minhas finanças",
					"Começar a investir do zero",
					"Receber meu primeiro dividendo",
					"Fazer meu dinheiro render mais",
				),
			},
			{
				ID:     "alreadyInvest",
				Prompt: "Hoje você já investe?",
				Options: choices(
					AnswerNotYetInvesting,
					"Sim, comecei recentemente",
					"Sim, já invisto há um tempo",
				),
			},
			{
				ID:     "blocker",
				Prompt: "O que mais te trava hoje?",
				Options: choices(
					"Falta de dinheiro sobrando",
					"Medo de perder dinheiro",
					"Não sei por onde começar",
					"Tenho dívidas / contas apertadas",
				),
			},
			{
				ID:     "whereInvest",
				Prompt: "Onde você já investe hoje?",
				Options: choices(
					"Poupança / Conta remunerada",
					"Tesouro / Renda fixa",
					"Ações / FIIs",
					"Cripto",
					"Um pouco de tudo",
				),
			},
			{
				ID:     "invested",
				Prompt: "Hoje, quanto você já tem investido (aprox.)?",
				Options: choices(
					"Nada ainda",
					"Até R$ 1.000",
					"R$ 1.000 – R$ 5.000",
					"R$ 5.000 – R$ 20.000",
					"R$ 20.000 – R$ 50.000",
					"Acima de R$ 50.000",
				),
			},
			{
				ID:     "ageRange",
				Prompt: "Qual é sua faixa etária?",
				Options: choices(
					"Até 24 anos",
					"25 – 34 anos",
					"35 – 44 anos",
					"45 – 54 anos",
					"55 anos ou mais",
				),
			},
			{
				ID:     "income",
				Prompt: "Qual é sua renda mensal aproximada?",
				Options: choices(
					"Até R$ 1.500",
					"R$ 1.500 – R$ 3.000",
					"R$ 3.000 – R$ 6.000",
					"R$ 6.000 – R$ 10.000",
					"Acima de R$ 10.000",
					"Prefiro não informar",
				),
			},
			{
				ID:      "spouse",
				Prompt:  "Você tem cônjuge?",
				Options: choices("Sim", "Não"),
			},
			{
				ID:      "children",
				Prompt:  "Você tem filhos?",
				Options: choices("Sim", "Não"),
			},
			{
				ID:     "monthly",
				Prompt: "E por mês, quanto você consegue investir (aprox.)?",
				Options: choices(
					"R$ 0 por enquanto",
					"Até R$ 100",
					"R$ 100 – R$ 300",
					"R$ 300 – R$ 800",
					"Acima de R$ 800",
				),
			},
			{
				ID:     "time",
				Prompt: "Em quanto tempo você quer começar a ver resultados?",
				Options: choices(
					"1–3 meses",
					"3–12 meses",
					"1–3 anos",
					"Sem pressa, quero consistência",
				),
			},
			{
				ID:     "risk",
				Prompt: "E qual frase combina mais com você?",
				Options: choices(
					"Prefiro segurança total",
					"Aceito um pouco de risco pra crescer mais",
					"Topo mais risco por ganhos maiores",
					"Ainda não sei",
				),
			},
			{
				ID:     "dividends",
				Prompt: "Dividendos são um objetivo pra você?",
				Options: choices(
					"Sim, é meu foco principal",
					"Quero, mas primeiro preciso organizar tudo",
					"Prefiro crescimento do patrimônio",
					"Ainda não sei",
				),
			},
			{
				ID:     "firstDividendEmotion",
				Prompt: "Se você recebesse seu primeiro dividendo, qual valor já te deixaria feliz?",
				Options: choices(
					"Qualquer valor, só pra começar",
					"R$ 10 – R$ 50",
					"R$ 50 – R$ 200",
					"R$ 200+",
				),
			},
			{
				ID:     "expenseControl",
				Prompt: "Hoje você faz algum controle das suas despesas?",
				Options: choices(
					"Não controlo",
					"Anoto em papel",
					"Uso planilha",
					"Uso algum app",
					"Já controlo bem",
				),
			},
			{
				ID:     "coaching",
				Prompt: "Você se sente mais seguro(a) com acompanhamento mais próximo?",
				Options: choices(
					"Sim, gosto de acompanhamento passo a passo",
					"Prefiro aprender sozinho(a)",
					"Depende do momento",
					"Nunca tive, mas teria interesse",
				),
			},
			{
				ID:     "learning",
				Prompt: "E você prefere aprender como?",
				Options: choices(
					"Passo a passo bem simples",
					"Resumo rápido + ação prática",
					"Explicação completa",
					"Um pouco de tudo",
				),
			},
			{
				ID:     "email",
				Prompt: "Pra fechar: qual é seu melhor e-mail? Uso ele só pra guardar seu perfil e te mandar os próximos passos.",
				Kind:   KindEmail,
			},
			{
				ID:     "done",
				Prompt: "Perfeito ✅ Já entendi seu perfil.\nAgora clique no botão abaixo para agendar seu primeiro acompanhamento:",
				Options: []Option{
					{Label: "📅 Agendar agora", Action: ActionSchedule},
					{Label: "Recomeçar", Action: ActionRestart},
				},
			},
		},
		Rules: []SkipRule{
			// blocker only makes sense for people who do not invest yet.
			{Target: "blocker", When: "alreadyInvest", NotEquals: AnswerNotYetInvesting},
			// whereInvest only makes sense for people who already invest.
			{Target: "whereInvest", When: "alreadyInvest", Equals: AnswerNotYetInvesting},
		},
	}
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}
