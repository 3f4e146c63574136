package services

import (
	"fmt"

	"github.com/juliosaas/InfraAlert/internal/models"
)

// Tipos de recomendação apresentados ao usuário.
const (
	RecomendacaoInfo    = "INFO"
	RecomendacaoSucesso = "SUCCESS"
	RecomendacaoAlerta  = "WARNING"
	RecomendacaoPerigo  = "DANGER"
)

// Níveis de confiança da recomendação.
const (
	ConfiancaBaixa = "BAIXA"
	ConfiancaMedia = "MÉDIA"
	ConfiancaAlta  = "ALTA"
)

// GenerateRouteRecommendation mapeia a análise de segurança e o score
// de IA para a recomendação final. Com cobertura abaixo de 30% os dados
// são escassos demais para confiar no restante do pipeline e a resposta
// é sempre informativa; acima disso a recomendação segue a classificação
// de qualidade.
func GenerateRouteRecommendation(seguranca models.RouteSafetyAnalysis, ia models.AIAnalysis) models.Recommendation {
	cobertura := seguranca.DatabaseCoverage
	score := ia.FinalScore

	if cobertura < 30 {
		return models.Recommendation{
			Type:         RecomendacaoInfo,
			Message:      fmt.Sprintf("Rota traçada com base no caminho mais curto. Dados de segurança limitados (%.1f%% das ruas catalogadas).", cobertura),
			Suggestion:   "Mantenha-se atento ao ambiente e prefira ruas movimentadas.",
			AIConfidence: ConfiancaBaixa,
		}
	}

	switch ia.QualityRating {
	case models.QualidadeExcelente:
		return models.Recommendation{
			Type:         RecomendacaoSucesso,
			Message:      fmt.Sprintf("Excelente rota identificada! (Score IA: %.1f/10)", score),
			Suggestion:   "Esta é uma ótima opção para o horário atual.",
			AIConfidence: ConfiancaAlta,
		}
	case models.QualidadeBoa:
		return models.Recommendation{
			Type:         RecomendacaoSucesso,
			Message:      fmt.Sprintf("Boa rota identificada! (Score IA: %.1f/10)", score),
			Suggestion:   "Rota recomendada com segurança adequada.",
			AIConfidence: ConfiancaAlta,
		}
	case models.QualidadeRegular:
		return models.Recommendation{
			Type:         RecomendacaoAlerta,
			Message:      fmt.Sprintf("Rota com qualidade regular. (Score IA: %.1f/10)", score),
			Suggestion:   "Mantenha atenção redobrada durante o trajeto.",
			AIConfidence: ConfiancaMedia,
		}
	default:
		return models.Recommendation{
			Type:         RecomendacaoPerigo,
			Message:      fmt.Sprintf("Atenção! Rota com baixa qualidade. (Score IA: %.1f/10)", score),
			Suggestion:   "Considere alternativas mais seguras ou aguarde um horário melhor.",
			AIConfidence: ConfiancaAlta,
		}
	}
}
