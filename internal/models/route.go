package models

import "encoding/json"

// Coordinates é um par latitude/longitude em graus decimais.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StreetSafetyAnalysis é o resultado da análise de uma única rua
// em um horário específico. Ruas fora do catálogo recebem os valores
// padrão (índice 2.0, fora do período de perigo).
type StreetSafetyAnalysis struct {
	StreetName         string  `json:"street_name"`
	FoundInDB          bool    `json:"found_in_db"`
	BaseDangerIndex    float64 `json:"base_danger_index"`
	CurrentDangerIndex float64 `json:"current_danger_index"`
	IsDangerTime       bool    `json:"is_danger_time"`
	DangerPeriod       string  `json:"danger_period,omitempty"`
}

// RouteSafetyAnalysis agrega as análises de todas as ruas de uma rota.
type RouteSafetyAnalysis struct {
	StreetAnalyses     []StreetSafetyAnalysis `json:"street_analyses"`
	AverageDangerIndex float64                `json:"average_danger_index"`
	SafetyLevel        string                 `json:"safety_level"`
	DatabaseCoverage   float64                `json:"database_coverage"`
	TotalStreets       int                    `json:"total_streets"`
	StreetsInDatabase  int                    `json:"streets_in_database"`
}

// Níveis de segurança de uma rota, em função do índice médio de perigo.
const (
	NivelSegura   = "SEGURA"
	NivelModerada = "MODERADA"
	NivelPerigosa = "PERIGOSA"
)

// RouteResult é a rota devolvida pelo provedor externo (OSRM),
// já com os nomes das ruas extraídos dos passos.
type RouteResult struct {
	StartCoords     Coordinates     `json:"start_coords"`
	EndCoords       Coordinates     `json:"end_coords"`
	DistanceMeters  float64         `json:"distance_meters"`
	DurationSeconds float64         `json:"duration_seconds"`
	Geometry        json.RawMessage `json:"geometry"`
	StreetNames     []string        `json:"street_names"`
}

// AIAnalysis combina a estimativa do modelo treinado com o score
// heurístico determinístico.
type AIAnalysis struct {
	AIScore        float64 `json:"ai_score"`
	HeuristicScore float64 `json:"heuristic_score"`
	FinalScore     float64 `json:"final_score"`
	QualityRating  string  `json:"quality_rating"`
	Confidence     float64 `json:"confidence"`
}

// Classificações de qualidade da rota, em função do score final.
const (
	QualidadeExcelente = "EXCELENTE"
	QualidadeBoa       = "BOA"
	QualidadeRegular   = "REGULAR"
	QualidadeRuim      = "RUIM"
)

// Recommendation é a recomendação final apresentada ao usuário.
type Recommendation struct {
	Type         string `json:"type"`
	Message      string `json:"message"`
	Suggestion   string `json:"suggestion"`
	AIConfidence string `json:"ai_confidence"`
}

// CalculateRouteRequest é o corpo esperado em POST /calculate-route.
type CalculateRouteRequest struct {
	StartAddress string `json:"start_address"`
	EndAddress   string `json:"end_address"`
	CurrentTime  string `json:"current_time"` // formato "HH:MM", opcional
}

// AnalyzeStreetRequest é o corpo esperado em POST /analyze-street.
type AnalyzeStreetRequest struct {
	StreetName  string `json:"street_name"`
	CurrentTime string `json:"current_time"`
}

// GeocodeRequest é o corpo esperado em POST /geocode.
type GeocodeRequest struct {
	Address string `json:"address"`
	City    string `json:"city"`
}

// CalculateRouteResponse é a resposta completa de /calculate-route.
type CalculateRouteResponse struct {
	Route          RouteResult         `json:"route"`
	SafetyAnalysis RouteSafetyAnalysis `json:"safety_analysis"`
	AIAnalysis     AIAnalysis          `json:"ai_analysis"`
	Suggestions    []string            `json:"suggestions"`
	Recommendation Recommendation      `json:"recommendation"`
	Timestamp      string              `json:"timestamp"`
}
