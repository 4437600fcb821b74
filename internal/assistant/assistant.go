// Package assistant answers dashboard chat questions. The responder is an
// interface so the canned keyword-routed implementation can be swapped for a
// real model without touching the relay core.
package assistant

import (
	"context"
	"strings"
)

type Answer struct {
	Content     string   `json:"content"`
	Suggestions []string `json:"suggestions"`
}

type Responder interface {
	Ask(ctx context.Context, question string) (Answer, error)
}

// Topic is the routing verdict for a question.
type Topic string

const (
	TopicCritical       Topic = "critical"
	TopicTrend          Topic = "trend"
	TopicForecast       Topic = "forecast"
	TopicRecommendation Topic = "recommendation"
	TopicBlocked        Topic = "blocked"
	TopicGeneral        Topic = "general"
)

// Classifier decides which topic a question belongs to.
type Classifier interface {
	Classify(question string) Topic
}

// keywordClassifier routes by substring match, with a blocklist checked
// first so prompt-injection-looking input never reaches a response template.
type keywordClassifier struct{}

var blocklist = []string{
	"ignore previous",
	"ignore as instruções",
	"system prompt",
	"<script",
	"drop table",
}

var topicKeywords = []struct {
	topic    Topic
	keywords []string
}{
	{TopicCritical, []string{"crítica", "critica", "pior"}},
	{TopicTrend, []string{"tendência", "tendencia", "aumento"}},
	{TopicForecast, []string{"previsão", "previsao", "próximo", "proximo"}},
	{TopicRecommendation, []string{"recomendação", "recomendacao", "ação", "acao"}},
}

func (keywordClassifier) Classify(question string) Topic {
	q := strings.ToLower(question)
	for _, blocked := range blocklist {
		if strings.Contains(q, blocked) {
			return TopicBlocked
		}
	}
	for _, route := range topicKeywords {
		for _, kw := range route.keywords {
			if strings.Contains(q, kw) {
				return route.topic
			}
		}
	}
	return TopicGeneral
}

// Canned is the mock responder: fixed analysis templates selected by the
// classifier, with contextual follow-up suggestions derived from the answer.
type Canned struct {
	classifier Classifier
}

func NewCanned() *Canned {
	return &Canned{classifier: keywordClassifier{}}
}

// NewCannedWithClassifier lets tests and future integrations swap routing.
func NewCannedWithClassifier(c Classifier) *Canned {
	return &Canned{classifier: c}
}

var responses = map[Topic]string{
	TopicCritical:       "Com base na análise dos dados, a região de Taguatinga apresenta o maior número de ocorrências críticas (45), principalmente relacionadas à iluminação pública deficiente. Recomendo priorizar ações de melhoria na infraestrutura de iluminação dessa região.",
	TopicTrend:          "Os dados mostram uma tendência de aumento de 12% nas ocorrências críticas em relação ao mês anterior. As principais causas: iluminação precária (35%), lixo acumulado (26%), construções irregulares (22%) e áreas degradadas (17%).",
	TopicForecast:       "Para o próximo mês, os modelos preveem um possível aumento nas ocorrências de lixo acumulado na região de Ceilândia, com base em padrões históricos e eventos sazonais. Sugiro implementar ações preventivas de coleta intensificada.",
	TopicRecommendation: "Recomendações prioritárias: instalar 150 novos pontos de luz em Taguatinga, ampliar a coleta em Ceilândia em 40% e intensificar o monitoramento de construções em Sobradinho. Investimento estimado: R$ 2,3 milhões para resolver 80% das ocorrências críticas.",
	TopicBlocked:        "Não posso processar essa solicitação. Posso ajudar com análises sobre as desordens urbanas monitoradas: tendências, previsões ou recomendações de ação.",
	TopicGeneral:        "Entendi sua pergunta. Com base nos dados disponíveis, posso fornecer insights específicos sobre as desordens urbanas no Distrito Federal. Você gostaria de saber sobre tendências, previsões ou recomendações de ação?",
}

func (c *Canned) Ask(_ context.Context, question string) (Answer, error) {
	topic := c.classifier.Classify(question)
	content := responses[topic]
	return Answer{
		Content:     content,
		Suggestions: SuggestionsFor(content),
	}, nil
}

var suggestionRoutes = []struct {
	keywords    []string
	suggestions []string
}{
	{[]string{"críticas", "risco", "urgente"}, []string{"Como resolver rapidamente?", "Qual o investimento necessário?", "Definir prioridades"}},
	{[]string{"previsão", "preveem", "aumento", "tendência"}, []string{"Como prevenir?", "Quais ações preventivas?", "Análise de padrões"}},
	{[]string{"recomendações", "sugestões"}, []string{"Cronograma de implementação", "Recursos necessários", "Análise de impacto"}},
	{[]string{"dados", "estatísticas"}, []string{"Mostre dados históricos", "Análise comparativa", "Relatório detalhado"}},
	{[]string{"segurança", "crime"}, []string{"Mapeamento de riscos", "Estratégias de prevenção", "Monitoramento"}},
	{[]string{"iluminação", "infraestrutura"}, []string{"Plano de manutenção", "Orçamento necessário", "Cronograma de obras"}},
	{[]string{"lixo", "resíduos"}, []string{"Otimização de rotas", "Frequência de coleta", "Pontos críticos"}},
}

// SuggestionsFor derives follow-up chips from the answer content.
func SuggestionsFor(content string) []string {
	lower := strings.ToLower(content)
	for _, route := range suggestionRoutes {
		for _, kw := range route.keywords {
			if strings.Contains(lower, kw) {
				return route.suggestions
			}
		}
	}
	return []string{"Explique mais detalhes", "Mostre exemplos práticos", "Análise complementar"}
}
