package services

import "testing"

func TestSimpleClassifier_Classify(t *testing.T) {
	c := SimpleClassifier{}

	tests := []struct {
		name          string
		description   string
		establishment string
		want          string
	}{
		{"market description", "compra no mercado", "", "Alimentação"},
		{"supermarket establishment", "compra mensal", "Supermercado Boa Vista", "Alimentação"},
		{"uber ride", "uber até o aeroporto", "", "Transporte"},
		{"ride app establishment", "corrida", "99 Tecnologia", "Transporte"},
		{"pharmacy", "farmácia são joão", "", "Saúde"},
		{"medicine", "remédio para gripe", "", "Saúde"},
		{"gym", "mensalidade academia", "", "Bem-estar"},
		{"cinema", "ingresso cinema", "", "Lazer"},
		{"streaming establishment", "assinatura mensal", "Netflix", "Lazer"},
		{"no match", "pagamento diverso", "", "Outros"},
		{"empty input", "", "", "Outros"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.description, tt.establishment)
			if got != tt.want {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.description, tt.establishment, got, tt.want)
			}
		})
	}
}

// Rule order is part of the contract: a description matching both the food
// and transport rules lands on the food rule, which comes first.
func TestSimpleClassifier_RuleOrder(t *testing.T) {
	c := SimpleClassifier{}
	got := c.Classify("uber até o mercado", "")
	if got != "Alimentação" {
		t.Errorf("Classify() = %q, want Alimentação (first matching rule)", got)
	}
}

func TestKeywordClassifier_Classify(t *testing.T) {
	c := KeywordClassifier{}

	tests := []struct {
		name          string
		description   string
		establishment string
		want          string
	}{
		{"utilities", "conta de luz", "", "Contas e Serviços"},
		{"rent", "aluguel do apartamento", "", "Moradia"},
		{"school", "mensalidade escola", "", "Educação"},
		{"fuel with diacritics folded", "combustível do carro", "", "Transporte"},
		{"salary", "salário de julho", "", "Renda"},
		{"freelance", "freela de design", "", "Renda"},
		{"allowance", "mesada das crianças", "", "Família"},
		{"card bill", "fatura do cartão", "", "Financeiro"},
		{"bakery establishment", "", "Padaria Pão Quente", "Alimentação"},
		{"dentist", "consulta dentista", "", "Saúde"},
		{"trip", "viagem de férias", "", "Lazer"},
		{"no match", "doação beneficente", "", "Outros"},
		{"empty input", "", "", "Outros"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.description, tt.establishment)
			if got != tt.want {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.description, tt.establishment, got, tt.want)
			}
		})
	}
}

// Diacritics and case must not change the outcome.
func TestKeywordClassifier_DiacriticInsensitive(t *testing.T) {
	c := KeywordClassifier{}
	variants := []string{"FARMÁCIA central", "farmacia central", "Farmácia Central"}
	for _, v := range variants {
		if got := c.Classify(v, ""); got != "Saúde" {
			t.Errorf("Classify(%q) = %q, want Saúde", v, got)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	for _, c := range []Classifier{SimpleClassifier{}, KeywordClassifier{}} {
		first := c.Classify("compra no mercado", "Supermercado")
		for i := 0; i < 10; i++ {
			if got := c.Classify("compra no mercado", "Supermercado"); got != first {
				t.Fatalf("classification changed between calls: %q then %q", first, got)
			}
		}
	}
}

func TestGetClassifier(t *testing.T) {
	tests := []struct {
		strategy string
		wantErr  bool
	}{
		{"simple", false},
		{"keyword", false},
		{"neural", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			c, err := GetClassifier(tt.strategy)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetClassifier(%q) error = %v, wantErr %v", tt.strategy, err, tt.wantErr)
				return
			}
			if !tt.wantErr && c == nil {
				t.Error("GetClassifier() returned nil classifier")
			}
		})
	}
}

type fixedClassifier struct{ category string }

func (f fixedClassifier) Classify(description, establishment string) string { return f.category }

func TestRegisterClassifier(t *testing.T) {
	RegisterClassifier("fixed", fixedClassifier{category: "Teste"})

	c, err := GetClassifier("fixed")
	if err != nil {
		t.Fatalf("GetClassifier() after register error = %v", err)
	}
	if got := c.Classify("qualquer", ""); got != "Teste" {
		t.Errorf("registered classifier returned %q, want Teste", got)
	}

	// Cleanup to avoid affecting other tests
	delete(classifierStrategies, "fixed")
}
