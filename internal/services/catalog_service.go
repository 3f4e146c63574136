package services

import (
	"context"
	"errors"
	"strings"

	"github.com/juliosaas/InfraAlert/internal/models"
	"gorm.io/gorm"
)

// CatalogService define o contrato (interface) para consultas
// ao catálogo de ruas (tabela RotaSegura).
type CatalogService interface {
	// FindByNameSubstring busca a primeira rua cujo nome contenha o
	// trecho informado (case-insensitive). Retorna (nil, nil) quando
	// nenhuma rua corresponde; ausência não é erro.
	FindByNameSubstring(ctx context.Context, query string) (*models.RotaSegura, error)

	// ListStreets retorna todas as ruas catalogadas.
	ListStreets(ctx context.Context) ([]models.RotaSegura, error)
}

// catalogService é a implementação concreta de CatalogService.
// Encapsula a dependência do GORM para acessar o banco.
type catalogService struct {
	db *gorm.DB
}

// NewCatalogService injeta a dependência *gorm.DB e devolve
// uma instância de CatalogService pronta para uso.
func NewCatalogService(db *gorm.DB) CatalogService {
	return &catalogService{db: db}
}

// FindByNameSubstring procura no catálogo por LOWER(nome_rua) LIKE %query%.
// A ordenação por id garante que, para um mesmo estado do catálogo,
// a mesma rua é sempre escolhida quando várias correspondem.
func (s *catalogService) FindByNameSubstring(ctx context.Context, query string) (*models.RotaSegura, error) {
	var rua models.RotaSegura

	padrao := "%" + strings.ToLower(query) + "%"
	err := s.db.WithContext(ctx).
		Where("LOWER(nome_rua) LIKE ?", padrao).
		Order("id").
		First(&rua).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &rua, nil
}

// ListStreets executa SELECT * FROM "RotaSegura".
func (s *catalogService) ListStreets(ctx context.Context) ([]models.RotaSegura, error) {
	var ruas []models.RotaSegura

	if err := s.db.WithContext(ctx).Order("id").Find(&ruas).Error; err != nil {
		return nil, err
	}

	return ruas, nil
}
