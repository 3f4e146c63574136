package services

import (
	"strings"
	"testing"

	"github.com/juliosaas/InfraAlert/internal/models"
)

// TestGenerateRouteRecommendation_CoberturaBaixa verifica que abaixo
// de 30% de cobertura a recomendação é sempre INFO, mesmo com
// qualidade excelente.
func TestGenerateRouteRecommendation_CoberturaBaixa(t *testing.T) {
	seguranca := models.RouteSafetyAnalysis{DatabaseCoverage: 29.9}
	ia := models.AIAnalysis{FinalScore: 9.8, QualityRating: models.QualidadeExcelente}

	rec := GenerateRouteRecommendation(seguranca, ia)
	if rec.Type != RecomendacaoInfo {
		t.Errorf("esperava INFO, obteve %s", rec.Type)
	}
	if rec.AIConfidence != ConfiancaBaixa {
		t.Errorf("esperava confiança BAIXA, obteve %s", rec.AIConfidence)
	}
	if !strings.Contains(rec.Message, "29.9%") {
		t.Errorf("mensagem deveria interpolar a cobertura com uma decimal: %q", rec.Message)
	}
}

// TestGenerateRouteRecommendation_PorQualidade cobre o mapeamento
// qualidade → tipo/confiança acima do corte de cobertura.
func TestGenerateRouteRecommendation_PorQualidade(t *testing.T) {
	casos := []struct {
		qualidade string
		tipo      string
		confianca string
	}{
		{models.QualidadeExcelente, RecomendacaoSucesso, ConfiancaAlta},
		{models.QualidadeBoa, RecomendacaoSucesso, ConfiancaAlta},
		{models.QualidadeRegular, RecomendacaoAlerta, ConfiancaMedia},
		{models.QualidadeRuim, RecomendacaoPerigo, ConfiancaAlta},
		{"QUALQUER_OUTRA", RecomendacaoPerigo, ConfiancaAlta},
	}

	seguranca := models.RouteSafetyAnalysis{DatabaseCoverage: 80.0}
	for _, c := range casos {
		ia := models.AIAnalysis{FinalScore: 6.54, QualityRating: c.qualidade}
		rec := GenerateRouteRecommendation(seguranca, ia)
		if rec.Type != c.tipo {
			t.Errorf("%s: esperava tipo %s, obteve %s", c.qualidade, c.tipo, rec.Type)
		}
		if rec.AIConfidence != c.confianca {
			t.Errorf("%s: esperava confiança %s, obteve %s", c.qualidade, c.confianca, rec.AIConfidence)
		}
		if !strings.Contains(rec.Message, "6.5") {
			t.Errorf("%s: mensagem deveria interpolar o score com uma decimal: %q", c.qualidade, rec.Message)
		}
	}
}

// TestGenerateRouteRecommendation_LimiteDe30 verifica o corte exato:
// 30.0 já não é mais INFO.
func TestGenerateRouteRecommendation_LimiteDe30(t *testing.T) {
	seguranca := models.RouteSafetyAnalysis{DatabaseCoverage: 30.0}
	ia := models.AIAnalysis{FinalScore: 7.0, QualityRating: models.QualidadeBoa}

	rec := GenerateRouteRecommendation(seguranca, ia)
	if rec.Type != RecomendacaoSucesso {
		t.Errorf("cobertura 30.0 deveria seguir a qualidade, obteve %s", rec.Type)
	}
}
