// Package services holds the analytics and scheduling logic: transaction
// classification, installment scheduling, spend forecasting and budget
// alerting, plus the orchestration services that tie them to storage.
//
// This file implements the Strategy Pattern for transaction classification.
// Each strategy is a fixed, ordered rule table; evaluation order is part of
// the contract, first match wins.
package services

import (
	"fmt"
	"strings"
)

// FallbackCategory is assigned when no rule matches. Classification is a
// total function: it never fails and never returns an empty category.
const FallbackCategory = "Outros"

// Classifier is the strategy interface for mapping transaction text to a
// category name. Implementations must be pure: the same description and
// establishment always yield the same category.
type Classifier interface {
	Classify(description, establishment string) string
}

// SimpleClassifier checks a short fixed list of substring rules against the
// lowercased description and establishment, in declaration order.
type SimpleClassifier struct{}

type simpleRule struct {
	category      string
	description   []string // substrings matched against the description
	establishment []string // substrings matched against the establishment
}

// simpleRules is evaluated top to bottom; the slice order is the rule
// priority and is covered by tests.
var simpleRules = []simpleRule{
	{category: "Alimentação", description: []string{"mercado"}, establishment: []string{"supermercado"}},
	{category: "Transporte", description: []string{"uber"}, establishment: []string{"99"}},
	{category: "Saúde", description: []string{"farmácia", "remédio"}},
	{category: "Bem-estar", description: []string{"academia"}},
	{category: "Lazer", description: []string{"cinema"}, establishment: []string{"netflix"}},
}

func (SimpleClassifier) Classify(description, establishment string) string {
	desc := strings.ToLower(description)
	estab := strings.ToLower(establishment)

	for _, rule := range simpleRules {
		for _, kw := range rule.description {
			if strings.Contains(desc, kw) {
				return rule.category
			}
		}
		for _, kw := range rule.establishment {
			if strings.Contains(estab, kw) {
				return rule.category
			}
		}
	}
	return FallbackCategory
}

// KeywordClassifier folds diacritics and case away, then walks an ordered
// category table matching keywords against the combined text.
type KeywordClassifier struct{}

type keywordGroup struct {
	category string
	keywords []string
}

// keywordGroups is evaluated in order. The fallback carries no keywords and
// is appended implicitly, so it always loses to a real match.
var keywordGroups = []keywordGroup{
	{category: "Contas e Serviços", keywords: []string{"agua", "luz", "internet", "celular"}},
	{category: "Moradia", keywords: []string{"condominio", "aluguel"}},
	{category: "Educação", keywords: []string{"escola", "concurso", "curso", "faculdade"}},
	{category: "Transporte", keywords: []string{"carro", "ipva", "prestacao", "combustivel", "uber"}},
	{category: "Renda", keywords: []string{"salario", "freela", "pagamento"}},
	{category: "Família", keywords: []string{"mesada", "familia", "filho"}},
	{category: "Financeiro", keywords: []string{"cartao", "credito", "juros", "fatura"}},
	{category: "Alimentação", keywords: []string{"mercado", "supermercado", "padaria", "restaurante", "pizza"}},
	{category: "Saúde", keywords: []string{"farmacia", "remedio", "consulta", "dentista"}},
	{category: "Lazer", keywords: []string{"cinema", "viagem", "bar", "show"}},
}

func (KeywordClassifier) Classify(description, establishment string) string {
	text := NormalizeText(strings.TrimSpace(description + " " + establishment))

	for _, group := range keywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				return group.category
			}
		}
	}
	return FallbackCategory
}

// classifierStrategies maps strategy names to their implementations.
var classifierStrategies = map[string]Classifier{
	"simple":  SimpleClassifier{},
	"keyword": KeywordClassifier{},
}

// GetClassifier returns the classifier registered under the given strategy
// name. Returns an error for unknown strategies.
func GetClassifier(strategy string) (Classifier, error) {
	c, ok := classifierStrategies[strategy]
	if !ok {
		return nil, fmt.Errorf("unknown classifier strategy: %s", strategy)
	}
	return c, nil
}

// RegisterClassifier registers a custom classification strategy, allowing
// extension without touching the built-in rule tables.
func RegisterClassifier(strategy string, c Classifier) {
	classifierStrategies[strategy] = c
}
