package services

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juliosaas/InfraAlert/internal/models"
)

// HistoryService registra cada rota calculada na tabela de analytics
// analytics.route_history. O registro é best-effort: falhas são apenas
// logadas e nunca derrubam a requisição que originou a rota.
type HistoryService struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewHistoryService injeta o pool pgx do banco de analytics.
func NewHistoryService(pool *pgxpool.Pool) *HistoryService {
	return &HistoryService{
		pool:   pool,
		logger: log.New(os.Stdout, "[HISTORY] ", log.LstdFlags|log.Lmsgprefix),
	}
}

// RecordRoute insere o resumo de uma rota calculada no histórico.
// Seguro para chamar com receiver nil (analytics desabilitado).
func (h *HistoryService) RecordRoute(ctx context.Context, startAddress, endAddress string, seguranca models.RouteSafetyAnalysis, ia models.AIAnalysis) {
	if h == nil || h.pool == nil {
		return
	}

	_, err := h.pool.Exec(ctx, `
		INSERT INTO analytics.route_history (
			id, start_address, end_address,
			total_streets, streets_in_database,
			average_danger_index, safety_level, database_coverage,
			final_score, quality_rating
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.New().String(), startAddress, endAddress,
		seguranca.TotalStreets, seguranca.StreetsInDatabase,
		seguranca.AverageDangerIndex, seguranca.SafetyLevel, seguranca.DatabaseCoverage,
		ia.FinalScore, ia.QualityRating,
	)
	if err != nil {
		h.logger.Printf("Erro ao registrar rota no histórico: %v", err)
	}
}
