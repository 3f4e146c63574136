package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/juliosaas/InfraAlert/internal/models"
	"github.com/juliosaas/InfraAlert/internal/services"
)

// RoutingController agrupa as rotas HTTP de cálculo e análise de
// segurança de trajetos.
type RoutingController struct {
	routing *services.RoutingService
	safety  services.SafetyService
	ai      *services.RouteAI
	history *services.HistoryService
	catalog services.CatalogService
}

// NewRoutingController é a função fábrica que injeta os serviços e
// retorna um RoutingController configurado.
func NewRoutingController(routing *services.RoutingService, safety services.SafetyService, ai *services.RouteAI, history *services.HistoryService, catalog services.CatalogService) *RoutingController {
	return &RoutingController{
		routing: routing,
		safety:  safety,
		ai:      ai,
		history: history,
		catalog: catalog,
	}
}

// Register associa as rotas HTTP deste controller a um *echo.Group
// (normalmente o prefixo "/api/routing").
func (ctr *RoutingController) Register(g *echo.Group) {
	g.POST("/calculate-route", ctr.CalculateRoute)
	g.POST("/analyze-street", ctr.AnalyzeStreet)
	g.POST("/geocode", ctr.Geocode)
	g.POST("/train-ai", ctr.TrainAI)
	g.GET("/streets", ctr.ListStreets)
}

// parseHorarioOuAgora interpreta "HH:MM" do corpo da requisição;
// ausente ou inválido, usa o horário atual do servidor.
func parseHorarioOuAgora(s string) services.Horario {
	if s != "" {
		if h, err := services.ParseHorario(s); err == nil {
			return h
		}
	}
	return services.HorarioDe(time.Now())
}

// CalculateRoute trata POST /calculate-route.
// Calcula a rota entre dois endereços, analisa a segurança rua a rua,
// roda a análise de IA e monta a recomendação final.
func (ctr *RoutingController) CalculateRoute(c echo.Context) error {
	// 1. Recebe o JSON da requisição
	req := new(models.CalculateRouteRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(
			http.StatusBadRequest,
			map[string]string{"error": "Formato da req invalido: " + err.Error()},
		)
	}

	// 2. Valida os campos obrigatorios
	if req.StartAddress == "" || req.EndAddress == "" {
		return c.JSON(
			http.StatusBadRequest,
			map[string]string{"error": "Endereços de origem e destino são obrigatórios"},
		)
	}

	horario := parseHorarioOuAgora(req.CurrentTime)
	ctx := c.Request().Context()

	// 3. Calcula a rota via colaboradores externos (geocoding + OSRM)
	rota, err := ctr.routing.CalculateRoute(ctx, req.StartAddress, req.EndAddress)
	if err != nil || rota == nil {
		return c.JSON(
			http.StatusNotFound,
			map[string]string{"error": "Não foi possível calcular a rota"},
		)
	}

	// 4. Analisa a segurança da rota rua a rua
	seguranca, err := ctr.safety.AnalyzeRoute(ctx, rota.StreetNames, horario)
	if err != nil {
		return c.JSON(
			http.StatusInternalServerError,
			map[string]string{"error": "Falha na análise de segurança: " + err.Error()},
		)
	}

	// 5. Análise com IA; se o modelo estiver indisponível, cai
	//    explicitamente para o score heurístico
	ia, err := ctr.ai.PredictRouteQuality(rota, seguranca, horario)
	if err != nil {
		if !errors.Is(err, services.ErrModeloIndisponivel) {
			return c.JSON(
				http.StatusInternalServerError,
				map[string]string{"error": "Falha na análise de IA: " + err.Error()},
			)
		}
		ia = ctr.ai.HeuristicOnlyQuality(rota, seguranca)
	}

	// 6. Sugestões de melhoria e recomendação final
	sugestoes := ctr.ai.SuggestImprovements(rota, seguranca, horario)
	recomendacao := services.GenerateRouteRecommendation(seguranca, ia)

	// 7. Registra no histórico de analytics (best-effort)
	ctr.history.RecordRoute(ctx, req.StartAddress, req.EndAddress, seguranca, ia)

	return c.JSON(http.StatusOK, models.CalculateRouteResponse{
		Route:          *rota,
		SafetyAnalysis: seguranca,
		AIAnalysis:     ia,
		Suggestions:    sugestoes,
		Recommendation: recomendacao,
		Timestamp:      time.Now().Format(time.RFC3339),
	})
}

// AnalyzeStreet trata POST /analyze-street.
// Analisa a segurança de uma única rua no horário informado.
func (ctr *RoutingController) AnalyzeStreet(c echo.Context) error {
	req := new(models.AnalyzeStreetRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(
			http.StatusBadRequest,
			map[string]string{"error": "Formato da req invalido: " + err.Error()},
		)
	}

	if req.StreetName == "" {
		return c.JSON(
			http.StatusBadRequest,
			map[string]string{"error": "Nome da rua é obrigatório"},
		)
	}

	horario := parseHorarioOuAgora(req.CurrentTime)

	analise, err := ctr.safety.AnalyzeStreet(c.Request().Context(), req.StreetName, horario)
	if err != nil {
		return c.JSON(
			http.StatusInternalServerError,
			map[string]string{"error": "Falha na análise da rua: " + err.Error()},
		)
	}

	return c.JSON(http.StatusOK, analise)
}

// Geocode trata POST /geocode.
// Converte um endereço em coordenadas via Nominatim.
func (ctr *RoutingController) Geocode(c echo.Context) error {
	req := new(models.GeocodeRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(
			http.StatusBadRequest,
			map[string]string{"error": "Formato da req invalido: " + err.Error()},
		)
	}

	if req.Address == "" {
		return c.JSON(
			http.StatusBadRequest,
			map[string]string{"error": "Endereço é obrigatório"},
		)
	}

	coords, err := ctr.routing.Geocoding.GeocodeAddress(c.Request().Context(), req.Address, req.City)
	if err != nil || coords == nil {
		return c.JSON(
			http.StatusNotFound,
			map[string]string{"error": "Endereço não encontrado"},
		)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"address":     req.Address,
		"coordinates": coords,
	})
}

// ListStreets trata GET /streets.
// Retorna todas as ruas catalogadas com seus períodos de perigo.
func (ctr *RoutingController) ListStreets(c echo.Context) error {
	ruas, err := ctr.catalog.ListStreets(c.Request().Context())
	if err != nil {
		return c.JSON(
			http.StatusInternalServerError,
			map[string]string{"error": err.Error()},
		)
	}

	return c.JSON(http.StatusOK, ruas)
}

// TrainAI trata POST /train-ai.
// Força o retreinamento do modelo de IA.
func (ctr *RoutingController) TrainAI(c echo.Context) error {
	if err := ctr.ai.TrainModel(true); err != nil {
		return c.JSON(
			http.StatusInternalServerError,
			map[string]string{"error": "Erro ao treinar IA: " + err.Error()},
		)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Modelo de IA retreinado com sucesso",
	})
}
