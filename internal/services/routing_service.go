package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/juliosaas/InfraAlert/internal/models"
)

const userAgentGeocoding = "rota-segura-app"

// GeocodingService converte endereços em coordenadas usando o
// Nominatim (OpenStreetMap).
type GeocodingService struct {
	client  *http.Client
	baseURL string
	logger  *log.Logger
}

// NewGeocodingService cria o serviço de geocoding apontando para a
// instância de Nominatim configurada.
func NewGeocodingService(baseURL string) *GeocodingService {
	return &GeocodingService{
		client:  &http.Client{Timeout: 3 * time.Second},
		baseURL: baseURL,
		logger:  log.New(os.Stdout, "[GEOCODING] ", log.LstdFlags|log.Lmsgprefix),
	}
}

// nominatimResult é um item da resposta de busca do Nominatim.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// GeocodeAddress converte um endereço em coordenadas lat/lng.
// Retorna (nil, nil) quando o endereço não é encontrado: ausência,
// não erro. A cidade padrão é "Campinas, SP".
func (g *GeocodingService) GeocodeAddress(ctx context.Context, address, city string) (*models.Coordinates, error) {
	if city == "" {
		city = "Campinas, SP"
	}
	enderecoCompleto := fmt.Sprintf("%s, %s, Brasil", address, city)
	g.logger.Printf("Geocoding: %s", enderecoCompleto)

	params := url.Values{}
	params.Set("q", enderecoCompleto)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	// O Nominatim exige identificação da aplicação
	req.Header.Set("User-Agent", userAgentGeocoding)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro no geocoding: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding retornou status %d", resp.StatusCode)
	}

	var resultados []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&resultados); err != nil {
		return nil, fmt.Errorf("resposta de geocoding inválida: %w", err)
	}
	if len(resultados) == 0 {
		g.logger.Printf("Geocoding falhou para: %s", enderecoCompleto)
		return nil, nil
	}

	lat, err := strconv.ParseFloat(resultados[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("latitude inválida na resposta: %w", err)
	}
	lng, err := strconv.ParseFloat(resultados[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("longitude inválida na resposta: %w", err)
	}

	coords := &models.Coordinates{Latitude: lat, Longitude: lng}
	g.logger.Printf("Geocoding sucesso: %.6f, %.6f", coords.Latitude, coords.Longitude)
	return coords, nil
}

// RoutingService obtém rotas do OSRM (Open Source Routing Machine)
// e extrai os nomes das ruas percorridas.
type RoutingService struct {
	Geocoding *GeocodingService

	client  *http.Client
	osrmURL string
	logger  *log.Logger
}

// NewRoutingService cria o serviço de rotas com as URLs dos
// colaboradores externos.
func NewRoutingService(osrmBaseURL, nominatimBaseURL string) *RoutingService {
	return &RoutingService{
		Geocoding: NewGeocodingService(nominatimBaseURL),
		client:    &http.Client{Timeout: 8 * time.Second},
		osrmURL:   osrmBaseURL,
		logger:    log.New(os.Stdout, "[ROUTING] ", log.LstdFlags|log.Lmsgprefix),
	}
}

// Estruturas mínimas da resposta do OSRM, só o que usamos.
type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64         `json:"distance"`
	Duration float64         `json:"duration"`
	Geometry json.RawMessage `json:"geometry"`
	Legs     []osrmLeg       `json:"legs"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmStep struct {
	Name string `json:"name"`
}

// GetRouteOSRM consulta o OSRM para a rota de carro entre as duas
// coordenadas. Retorna (nil, nil) quando o OSRM não encontra rota.
func (r *RoutingService) GetRouteOSRM(ctx context.Context, start, end models.Coordinates) (*osrmRoute, error) {
	// OSRM espera lng,lat
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f",
		r.osrmURL, start.Longitude, start.Latitude, end.Longitude, end.Latitude)

	params := url.Values{}
	params.Set("overview", "full")
	params.Set("geometries", "geojson")
	params.Set("steps", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter rota: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OSRM retornou status %d", resp.StatusCode)
	}

	var corpo osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&corpo); err != nil {
		return nil, fmt.Errorf("resposta do OSRM inválida: %w", err)
	}

	if corpo.Code != "Ok" || len(corpo.Routes) == 0 {
		r.logger.Printf("OSRM sem rota (code=%s)", corpo.Code)
		return nil, nil
	}

	return &corpo.Routes[0], nil
}

// ExtractStreetNames coleta os nomes das ruas dos passos da rota,
// removendo duplicatas mas preservando a ordem da primeira ocorrência.
func ExtractStreetNames(rota *osrmRoute) []string {
	nomes := []string{}
	vistos := map[string]bool{}

	for _, perna := range rota.Legs {
		for _, passo := range perna.Steps {
			if passo.Name == "" || vistos[passo.Name] {
				continue
			}
			vistos[passo.Name] = true
			nomes = append(nomes, passo.Name)
		}
	}
	return nomes
}

// CalculateRoute calcula a rota completa entre dois endereços:
// geocoding da origem e do destino, consulta ao OSRM e extração dos
// nomes das ruas. Retorna (nil, nil) quando qualquer fase não encontra
// resultado; erros de transporte são propagados.
func (r *RoutingService) CalculateRoute(ctx context.Context, startAddress, endAddress string) (*models.RouteResult, error) {
	r.logger.Printf("Calculando rota: %q -> %q", startAddress, endAddress)

	startCoords, err := r.Geocoding.GeocodeAddress(ctx, startAddress, "")
	if err != nil {
		return nil, err
	}
	if startCoords == nil {
		r.logger.Printf("Falha no geocoding da origem")
		return nil, nil
	}

	endCoords, err := r.Geocoding.GeocodeAddress(ctx, endAddress, "")
	if err != nil {
		return nil, err
	}
	if endCoords == nil {
		r.logger.Printf("Falha no geocoding do destino")
		return nil, nil
	}

	rota, err := r.GetRouteOSRM(ctx, *startCoords, *endCoords)
	if err != nil {
		return nil, err
	}
	if rota == nil {
		r.logger.Printf("Falha no cálculo da rota")
		return nil, nil
	}

	nomes := ExtractStreetNames(rota)
	r.logger.Printf("Rota calculada: %d ruas, %.0fm", len(nomes), rota.Distance)

	return &models.RouteResult{
		StartCoords:     *startCoords,
		EndCoords:       *endCoords,
		DistanceMeters:  rota.Distance,
		DurationSeconds: rota.Duration,
		Geometry:        rota.Geometry,
		StreetNames:     nomes,
	}, nil
}
