package services

import (
	"context"
	"fmt"
	"time"

	"github.com/juliosaas/InfraAlert/internal/models"
)

// Índice padrão atribuído a ruas que não constam no catálogo.
const indicePadraoNaoCatalogada = 2.0

// Fator aplicado ao índice base dentro do período de perigo.
const fatorHorarioCritico = 1.5

// Horario é um horário do dia (hora:minuto), sem data associada.
type Horario struct {
	Hora   int
	Minuto int
}

// ParseHorario converte uma string "HH:MM" em Horario.
// Entradas malformadas retornam erro explícito; quem decide o que
// fazer com entrada inválida é o chamador.
func ParseHorario(s string) (Horario, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Horario{}, fmt.Errorf("horário inválido %q: %w", s, err)
	}
	return Horario{Hora: t.Hour(), Minuto: t.Minute()}, nil
}

// HorarioDe extrai o horário do dia de um time.Time.
func HorarioDe(t time.Time) Horario {
	return Horario{Hora: t.Hour(), Minuto: t.Minute()}
}

// Minutos retorna o horário como minutos desde a meia-noite.
func (h Horario) Minutos() int {
	return h.Hora*60 + h.Minuto
}

// Decimal retorna o horário como horas decimais (ex: 14:30 → 14.5).
func (h Horario) Decimal() float64 {
	return float64(h.Hora) + float64(h.Minuto)/60.0
}

// InDangerPeriod verifica se o horário está dentro do período de perigo
// [inicio, fim]. Quando inicio > fim o período cruza a meia-noite
// (ex: 20:00 às 05:00) e a pertinência vira t >= inicio OU t <= fim.
// Strings de horário que não podem ser interpretadas resultam em false:
// nunca marcamos perigo por causa de dado malformado no catálogo.
func InDangerPeriod(t Horario, inicioStr, fimStr string) bool {
	inicio, err := ParseHorario(inicioStr)
	if err != nil {
		return false
	}
	fim, err := ParseHorario(fimStr)
	if err != nil {
		return false
	}

	atual := t.Minutos()
	ini := inicio.Minutos()
	f := fim.Minutos()

	// Período cruza a meia-noite (ex: 20:00 às 05:00)
	if ini > f {
		return atual >= ini || atual <= f
	}
	return ini <= atual && atual <= f
}

// SafetyService define as operações de análise de segurança
// de ruas e rotas.
type SafetyService interface {
	// AnalyzeStreet analisa a segurança de uma rua específica
	// no horário informado.
	AnalyzeStreet(ctx context.Context, streetName string, t Horario) (models.StreetSafetyAnalysis, error)

	// AnalyzeRoute analisa a segurança de uma rota completa,
	// rua a rua, e agrega os resultados.
	AnalyzeRoute(ctx context.Context, streetNames []string, t Horario) (models.RouteSafetyAnalysis, error)
}

// safetyService é a implementação concreta de SafetyService.
// Depende apenas do catálogo de ruas; toda a lógica é pura em
// relação aos parâmetros e ao estado do catálogo.
type safetyService struct {
	catalogo CatalogService
}

// NewSafetyService injeta o CatalogService e devolve uma instância
// de SafetyService pronta para uso.
func NewSafetyService(catalogo CatalogService) SafetyService {
	return &safetyService{catalogo: catalogo}
}

// AnalyzeStreet busca a rua no catálogo por substring do nome.
// - Encontrada: o índice efetivo é base × 1.5 (limitado a 10.0)
//   quando o horário cai no período de perigo, senão o índice base.
// - Não encontrada: retorna a análise padrão (índice 2.0, fora de
//   período de perigo), com FoundInDB = false para que o chamador
//   possa calcular a cobertura do catálogo.
func (s *safetyService) AnalyzeStreet(ctx context.Context, streetName string, t Horario) (models.StreetSafetyAnalysis, error) {
	rua, err := s.catalogo.FindByNameSubstring(ctx, streetName)
	if err != nil {
		return models.StreetSafetyAnalysis{}, err
	}

	if rua == nil {
		return models.StreetSafetyAnalysis{
			StreetName:         streetName,
			FoundInDB:          false,
			BaseDangerIndex:    indicePadraoNaoCatalogada,
			CurrentDangerIndex: indicePadraoNaoCatalogada,
			IsDangerTime:       false,
		}, nil
	}

	horarioCritico := InDangerPeriod(t, rua.HorarioInicio, rua.HorarioFim)

	indiceAtual := rua.IndicePericulosidade
	if horarioCritico {
		// Aumenta o perigo no horário crítico, limitado ao teto da escala
		indiceAtual = min(10.0, indiceAtual*fatorHorarioCritico)
	}

	return models.StreetSafetyAnalysis{
		StreetName:         streetName,
		FoundInDB:          true,
		BaseDangerIndex:    rua.IndicePericulosidade,
		CurrentDangerIndex: indiceAtual,
		IsDangerTime:       horarioCritico,
		DangerPeriod:       fmt.Sprintf("%s - %s", rua.HorarioInicio, rua.HorarioFim),
	}, nil
}

// AnalyzeRoute roda AnalyzeStreet para cada rua, na ordem recebida e
// sem deduplicar (a deduplicação, quando existe, acontece na extração
// dos nomes a partir da geometria da rota).
func (s *safetyService) AnalyzeRoute(ctx context.Context, streetNames []string, t Horario) (models.RouteSafetyAnalysis, error) {
	analises := make([]models.StreetSafetyAnalysis, 0, len(streetNames))
	perigoTotal := 0.0
	ruasNaBase := 0

	for _, rua := range streetNames {
		analise, err := s.AnalyzeStreet(ctx, rua, t)
		if err != nil {
			return models.RouteSafetyAnalysis{}, err
		}
		analises = append(analises, analise)
		perigoTotal += analise.CurrentDangerIndex
		if analise.FoundInDB {
			ruasNaBase++
		}
	}

	perigoMedio := 0.0
	cobertura := 0.0
	if len(streetNames) > 0 {
		perigoMedio = perigoTotal / float64(len(streetNames))
		cobertura = float64(ruasNaBase) / float64(len(streetNames)) * 100
	}

	return models.RouteSafetyAnalysis{
		StreetAnalyses:     analises,
		AverageDangerIndex: perigoMedio,
		SafetyLevel:        classificarNivelSeguranca(perigoMedio),
		DatabaseCoverage:   cobertura,
		TotalStreets:       len(streetNames),
		StreetsInDatabase:  ruasNaBase,
	}, nil
}

// classificarNivelSeguranca mapeia o índice médio de perigo para o
// nível categórico. Os limites 3.0 e 6.0 são inclusivos: exatamente
// 3.0 ainda é SEGURA e exatamente 6.0 ainda é MODERADA.
func classificarNivelSeguranca(perigoMedio float64) string {
	switch {
	case perigoMedio <= 3:
		return models.NivelSegura
	case perigoMedio <= 6:
		return models.NivelModerada
	default:
		return models.NivelPerigosa
	}
}
