package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"upmoney/internal/flow"
	"upmoney/internal/models/db_models"
	"upmoney/internal/models/response_models"
	"upmoney/internal/repositories"
	"upmoney/pkg/utils"
)

const (
	defaultDashboardLimit = 2000
	defaultInsightsLimit  = 1500
	maxDashboardLimit     = 5000
)

// answer keys that never become a chart: identity and control steps.
var excludedKeys = map[string]bool{
	"email":   true,
	"welcome": true,
	"done":    true,
}

type DashboardServiceInterface interface {
	BuildDashboard(ctx context.Context, limit int) (*response_models.DashboardReport, error)
	BuildInsights(ctx context.Context, limit int) (*response_models.InsightsReport, error)
}

type DashboardService struct {
	repo    repositories.OnboardingRepositoryInterface
	catalog *flow.Catalog
}

func NewDashboardService(repo repositories.OnboardingRepositoryInterface, catalog *flow.Catalog) DashboardServiceInterface {
	return &DashboardService{repo: repo, catalog: catalog}
}

func (s *DashboardService) BuildDashboard(ctx context.Context, limit int) (*response_models.DashboardReport, error) {
	limit, err := normalizeLimit(limit, defaultDashboardLimit)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	report := &response_models.DashboardReport{
		TotalResponses: int64(len(rows)),
		Limit:          limit,
	}

	charted := make(map[string]bool, len(s.catalog.Questions))
	for i := range s.catalog.Questions {
		q := &s.catalog.Questions[i]
		charted[q.ID] = true
		if excludedKeys[q.ID] || q.Kind == flow.KindEmail {
			continue
		}
		report.Breakdowns = append(report.Breakdowns, breakdown(q.ID, q.Prompt, rows))
	}

	// Keys recorded in the store but absent from the current catalog
	// still get a chart, under a fallback label.
	for _, key := range extraKeys(rows, charted) {
		report.ExtraBreakdowns = append(report.ExtraBreakdowns,
			breakdown(key, fmt.Sprintf("Pergunta extra (%s)", key), rows))
	}

	return report, nil
}

func (s *DashboardService) BuildInsights(ctx context.Context, limit int) (*response_models.InsightsReport, error) {
	limit, err := normalizeLimit(limit, defaultInsightsLimit)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	counts := make(map[string]int64)
	seenHooks := make(map[string]bool)
	var hooks []string
	for i := range rows {
		p := personaFrom(rows[i].Answers)
		counts[p.Name]++
		if !seenHooks[p.Hook] && len(hooks) < 6 {
			seenHooks[p.Hook] = true
			hooks = append(hooks, p.Hook)
		}
	}

	personas := make([]response_models.PersonaCount, 0, len(counts))
	for name, n := range counts {
		personas = append(personas, response_models.PersonaCount{Name: name, Count: n})
	}
	sort.Slice(personas, func(i, j int) bool {
		if personas[i].Count != personas[j].Count {
			return personas[i].Count > personas[j].Count
		}
		return personas[i].Name < personas[j].Name
	})

	return &response_models.InsightsReport{
		TotalResponses: int64(len(rows)),
		Personas:       personas,
		TopHooks:       hooks,
	}, nil
}

func normalizeLimit(limit, def int) (int, error) {
	if limit == 0 {
		return def, nil
	}
	if limit < 0 || limit > maxDashboardLimit {
		return 0, utils.ErrInvalidLimit
	}
	return limit, nil
}

// breakdown counts occurrences of each literal answer value for key.
// Records without the key are excluded, not counted as a zero bucket.
func breakdown(key, prompt string, rows []db_models.OnboardingResponse) response_models.QuestionBreakdown {
	counts := make(map[string]int64)
	var total int64
	for i := range rows {
		v := strings.TrimSpace(rows[i].Answers[key])
		if v == "" {
			continue
		}
		counts[v]++
		total++
	}

	items := make([]response_models.AnswerCount, 0, len(counts))
	for value, n := range counts {
		var pct float64
		if total > 0 {
			pct = math.Round(float64(n)*1000/float64(total)) / 10
		}
		items = append(items, response_models.AnswerCount{Value: value, Count: n, Percent: pct})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Value < items[j].Value
	})

	return response_models.QuestionBreakdown{Key: key, Prompt: prompt, Total: total, Items: items}
}

func extraKeys(rows []db_models.OnboardingResponse, charted map[string]bool) []string {
	seen := make(map[string]bool)
	for i := range rows {
		for k := range rows[i].Answers {
			if charted[k] || excludedKeys[k] {
				continue
			}
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// personaFrom buckets one answer set into a content segment. The rules
// are deliberately simple string heuristics over the recorded options.
func personaFrom(a map[string]string) response_models.Persona {
	goal := a["goal"]
	blocker := a["blocker"]
	risk := a["risk"]
	expense := a["expenseControl"]
	coaching := a["coaching"]
	income := a["income"]

	switch {
	case strings.Contains(goal, "Organizar") &&
		(strings.Contains(expense, "Não") || strings.Contains(expense, "papel")):
		return response_models.Persona{
			Name:  "Organizador(a) Iniciante",
			Angle: "Organização + hábito",
			Hook:  "Você não precisa investir melhor, precisa organizar melhor.",
		}
	case strings.Contains(blocker, "Medo") || strings.Contains(risk, "segurança"):
		return response_models.Persona{
			Name:  "Cauteloso(a) por Medo",
			Angle: "Segurança + clareza",
			Hook:  "Medo some quando o plano é simples e repetível.",
		}
	case strings.Contains(goal, "dividendo") || strings.Contains(goal, "Dividendo"):
		return response_models.Persona{
			Name:  "Caçador(a) do Primeiro Dividendo",
			Angle: "Plano de 30 dias + consistência",
			Hook:  "Seu primeiro dividendo não é sobre valor, é sobre começar.",
		}
	case strings.Contains(coaching, "passo a passo"):
		return response_models.Persona{
			Name:  "Aluno(a) que Quer Mão na Massa",
			Angle: "Acompanhamento + execução",
			Hook:  "Com direção certa, você evolui 10x mais rápido.",
		}
	case strings.Contains(income, "Acima") && !strings.Contains(blocker, "Falta"):
		return response_models.Persona{
			Name:  "Otimização e Performance",
			Angle: "Alocação + disciplina",
			Hook:  "Você já tem renda, agora é fazer o dinheiro trabalhar.",
		}
	default:
		return response_models.Persona{
			Name:  "Perfil Misto",
			Angle: "Diagnóstico rápido",
			Hook:  "Seu plano começa entendendo seu momento real.",
		}
	}
}
