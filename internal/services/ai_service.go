package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/juliosaas/InfraAlert/internal/models"
)

// ErrModeloIndisponivel indica que o modelo de IA não pôde ser
// treinado nem carregado. O chamador deve cair para o score
// heurístico (HeuristicOnlyQuality) em vez de falhar a requisição.
var ErrModeloIndisponivel = errors.New("modelo de IA indisponível")

// Pesos do score heurístico de qualidade da rota.
const (
	pesoSeguranca = 0.4
	pesoDistancia = 0.3
	pesoTempo     = 0.2
	pesoCobertura = 0.1
)

// Pesos da combinação final entre modelo e heurística.
const (
	pesoModelo     = 0.7
	pesoHeuristica = 0.3
)

// Dimensão do vetor de características extraído por ExtractFeatures.
const numCaracteristicas = 13

// Parâmetros de treinamento do modelo.
const (
	amostrasTreinamento = 2000
	sementeTreinamento  = 42
	fracaoTeste         = 0.2
	regularizacaoRidge  = 1.0
)

// RouteAI estima a qualidade de uma rota combinando um modelo de
// regressão treinado sobre dados sintéticos com o score heurístico
// determinístico. O estado treinado é único por processo, inicializado
// sob demanda e protegido por mutex: requisições concorrentes antes do
// primeiro treinamento aguardam em vez de treinar em paralelo.
type RouteAI struct {
	mu       sync.Mutex
	treinado bool
	pesos    []float64 // coeficientes da regressão, por característica
	vies     float64   // intercepto
	medias   []float64 // normalização: média por característica
	desvios  []float64 // normalização: desvio padrão por característica

	modelPath string
	logger    *log.Logger
	now       func() time.Time
}

// NewRouteAI cria o estimador com o caminho onde o modelo treinado
// é persistido entre reinicializações do processo.
func NewRouteAI(modelPath string) *RouteAI {
	return &RouteAI{
		modelPath: modelPath,
		logger:    log.New(os.Stdout, "[ROTA-AI] ", log.LstdFlags|log.Lmsgprefix),
		now:       time.Now,
	}
}

// modeloSalvo é o formato JSON persistido em disco: coeficientes da
// regressão mais o estado de normalização, tudo em um arquivo só.
type modeloSalvo struct {
	Pesos      []float64 `json:"pesos"`
	Vies       float64   `json:"vies"`
	Medias     []float64 `json:"medias"`
	Desvios    []float64 `json:"desvios"`
	TreinadoEm time.Time `json:"treinado_em"`
	ExecucaoID string    `json:"execucao_id"`
}

// ExtractFeatures monta o vetor fixo de 13 características usado pelo
// modelo: horário decimal, distância (km), duração (h), número de ruas,
// perigo médio, cobertura (0-1), ruas na base, madrugada, horário de
// pico, fim de semana e as três proporções de ruas por faixa de perigo.
func (ai *RouteAI) ExtractFeatures(rota *models.RouteResult, seguranca models.RouteSafetyAnalysis, t Horario) []float64 {
	horarioDecimal := t.Decimal()

	distanciaKm := rota.DistanceMeters / 1000.0
	duracaoHoras := rota.DurationSeconds / 3600.0
	numRuas := len(rota.StreetNames)

	perigoMedio := seguranca.AverageDangerIndex
	cobertura := seguranca.DatabaseCoverage / 100.0
	ruasNaBase := seguranca.StreetsInDatabase

	madrugada := 0.0
	if t.Hora >= 22 || t.Hora <= 6 {
		madrugada = 1.0
	}
	horarioPico := 0.0
	if (t.Hora >= 7 && t.Hora <= 9) || (t.Hora >= 17 && t.Hora <= 19) {
		horarioPico = 1.0
	}
	fimDeSemana := 0.0
	if dia := ai.now().Weekday(); dia == time.Saturday || dia == time.Sunday {
		fimDeSemana = 1.0
	}

	// Distribuição das ruas por faixa de perigo
	perigosas, moderadas, seguras := 0, 0, 0
	for _, analise := range seguranca.StreetAnalyses {
		switch {
		case analise.CurrentDangerIndex >= 7:
			perigosas++
		case analise.CurrentDangerIndex >= 4:
			moderadas++
		default:
			seguras++
		}
	}

	proporcaoPerigosas, proporcaoModeradas, proporcaoSeguras := 0.0, 0.0, 0.0
	if numRuas > 0 {
		proporcaoPerigosas = float64(perigosas) / float64(numRuas)
		proporcaoModeradas = float64(moderadas) / float64(numRuas)
		proporcaoSeguras = float64(seguras) / float64(numRuas)
	}

	return []float64{
		horarioDecimal,
		distanciaKm,
		duracaoHoras,
		float64(numRuas),
		perigoMedio,
		cobertura,
		float64(ruasNaBase),
		madrugada,
		horarioPico,
		fimDeSemana,
		proporcaoPerigosas,
		proporcaoModeradas,
		proporcaoSeguras,
	}
}

// CalculateRouteScore calcula o score heurístico de qualidade da rota
// (0-10, onde 10 é melhor): soma ponderada de segurança (inverso do
// perigo), distância (penaliza após 5km), tempo (penaliza após 1h) e
// cobertura do catálogo, sempre limitada ao intervalo [0, 10].
func (ai *RouteAI) CalculateRouteScore(rota *models.RouteResult, seguranca models.RouteSafetyAnalysis) float64 {
	scoreSeguranca := math.Max(0, 10-seguranca.AverageDangerIndex)

	distanciaKm := rota.DistanceMeters / 1000.0
	scoreDistancia := math.Max(0, 10-distanciaKm/5)

	duracaoHoras := rota.DurationSeconds / 3600.0
	scoreTempo := math.Max(0, 10-duracaoHoras*10)

	scoreCobertura := seguranca.DatabaseCoverage / 10.0

	scoreFinal := scoreSeguranca*pesoSeguranca +
		scoreDistancia*pesoDistancia +
		scoreTempo*pesoTempo +
		scoreCobertura*pesoCobertura

	return math.Min(10.0, math.Max(0.0, scoreFinal))
}

// GenerateSyntheticTrainingData gera dados sintéticos de treinamento.
// Para uma mesma semente e quantidade de amostras o resultado é sempre
// idêntico, o que torna o treinamento reproduzível.
func GenerateSyntheticTrainingData(numAmostras int, semente uint64) ([][]float64, []float64) {
	src := rand.NewPCG(semente, semente)

	horarioDist := distuv.Uniform{Min: 0, Max: 24, Src: src}
	distanciaDist := distuv.Exponential{Rate: 1.0 / 5.0, Src: src} // média de 5km
	velocidadeDist := distuv.Uniform{Min: 20, Max: 60, Src: src}   // km/h
	ruasDist := distuv.Poisson{Lambda: 10, Src: src}
	perigoDist := distuv.Uniform{Min: 0, Max: 10, Src: src}
	coberturaDist := distuv.Uniform{Min: 0, Max: 1, Src: src}
	uniforme01 := distuv.Uniform{Min: 0, Max: 1, Src: src}

	X := make([][]float64, 0, numAmostras)
	y := make([]float64, 0, numAmostras)

	for i := 0; i < numAmostras; i++ {
		horarioDecimal := horarioDist.Rand()
		distancia := distanciaDist.Rand()
		duracao := distancia / velocidadeDist.Rand()
		numRuas := math.Max(1, math.Floor(ruasDist.Rand()))
		perigoMedio := perigoDist.Rand()
		cobertura := coberturaDist.Rand()
		ruasNaBase := math.Floor(numRuas * cobertura)

		madrugada := 0.0
		if horarioDecimal >= 22 || horarioDecimal <= 6 {
			madrugada = 1.0
		}
		horarioPico := 0.0
		if (horarioDecimal >= 7 && horarioDecimal <= 9) || (horarioDecimal >= 17 && horarioDecimal <= 19) {
			horarioPico = 1.0
		}
		fimDeSemana := 0.0
		if uniforme01.Rand() < 2.0/7.0 {
			fimDeSemana = 1.0
		}

		// Proporções de ruas por faixa de perigo, correlacionadas com o
		// perigo médio da amostra
		var proporcaoPerigosas float64
		if perigoMedio > 6 {
			proporcaoPerigosas = distuv.Beta{Alpha: 2, Beta: 5, Src: src}.Rand()
		} else {
			proporcaoPerigosas = distuv.Beta{Alpha: 1, Beta: 10, Src: src}.Rand()
		}
		var proporcaoSeguras float64
		if perigoMedio < 4 {
			proporcaoSeguras = distuv.Beta{Alpha: 5, Beta: 2, Src: src}.Rand()
		} else {
			proporcaoSeguras = distuv.Beta{Alpha: 1, Beta: 5, Src: src}.Rand()
		}
		proporcaoModeradas := math.Max(0, 1-proporcaoPerigosas-proporcaoSeguras)

		caracteristicas := []float64{
			horarioDecimal, distancia, duracao, numRuas, perigoMedio,
			cobertura, ruasNaBase, madrugada, horarioPico, fimDeSemana,
			proporcaoPerigosas, proporcaoModeradas, proporcaoSeguras,
		}

		// Rótulo: combinação heurística com penalidades de madrugada
		// e de proporção de ruas perigosas
		scoreSeguranca := math.Max(0, 10-perigoMedio)
		scoreDistancia := math.Max(0, 10-distancia/5)
		scoreTempo := math.Max(0, 10-duracao*10)
		scoreCobertura := cobertura * 10

		penalidadeMadrugada := 0.0
		if madrugada == 1.0 {
			penalidadeMadrugada = 2.0
		}
		penalidadePerigo := proporcaoPerigosas * 3

		score := scoreSeguranca*pesoSeguranca +
			scoreDistancia*pesoDistancia +
			scoreTempo*pesoTempo +
			scoreCobertura*pesoCobertura -
			penalidadeMadrugada -
			penalidadePerigo

		score = math.Min(10.0, math.Max(0.0, score))

		X = append(X, caracteristicas)
		y = append(y, score)
	}

	return X, y
}

// TrainModel treina (ou retreina) o modelo de regressão.
// Sem force, um modelo já treinado em memória ou persistido em disco
// é reaproveitado; com force o treinamento recomeça do zero.
func (ai *RouteAI) TrainModel(force bool) error {
	ai.mu.Lock()
	defer ai.mu.Unlock()
	return ai.trainLocked(force)
}

// ensureTrained garante estado treinado antes de uma predição.
// Requisições concorrentes antes do primeiro treinamento serializam
// aqui: apenas uma treina, as demais aguardam o lock.
func (ai *RouteAI) ensureTrained() error {
	ai.mu.Lock()
	defer ai.mu.Unlock()
	if ai.treinado {
		return nil
	}
	return ai.trainLocked(false)
}

func (ai *RouteAI) trainLocked(force bool) error {
	if ai.treinado && !force {
		return nil
	}

	// Tentar carregar modelo persistido antes de treinar de novo
	if !force {
		if err := ai.carregarModelo(); err == nil {
			ai.logger.Printf("Modelo carregado de %s", ai.modelPath)
			return nil
		}
	}

	execucaoID := uuid.New().String()
	ai.logger.Printf("Iniciando treinamento (execucao=%s, amostras=%d)", execucaoID, amostrasTreinamento)

	X, y := GenerateSyntheticTrainingData(amostrasTreinamento, sementeTreinamento)

	// Divisão treino/teste determinística
	XTreino, yTreino, XTeste, yTeste := dividirTreinoTeste(X, y, fracaoTeste, sementeTreinamento)

	// Normalizar características com média/desvio do conjunto de treino
	medias, desvios := ajustarEscala(XTreino)
	XTreinoNorm := aplicarEscala(XTreino, medias, desvios)
	XTesteNorm := aplicarEscala(XTeste, medias, desvios)

	pesos, vies, err := ajustarRidge(XTreinoNorm, yTreino, regularizacaoRidge)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModeloIndisponivel, err)
	}

	ai.pesos = pesos
	ai.vies = vies
	ai.medias = medias
	ai.desvios = desvios
	ai.treinado = true

	// Avaliar modelo nos dois conjuntos
	r2Treino := avaliarR2(XTreinoNorm, yTreino, pesos, vies)
	r2Teste := avaliarR2(XTesteNorm, yTeste, pesos, vies)
	ai.logger.Printf("Modelo treinado - Score treino: %.3f, Score teste: %.3f", r2Treino, r2Teste)

	if err := ai.salvarModelo(execucaoID); err != nil {
		// Falha ao persistir não invalida o modelo em memória
		ai.logger.Printf("Erro ao salvar modelo: %v", err)
	}

	return nil
}

// predizer aplica o modelo treinado a um vetor de características cru.
func (ai *RouteAI) predizer(caracteristicas []float64) float64 {
	soma := ai.vies
	for i, v := range caracteristicas {
		norm := v - ai.medias[i]
		if ai.desvios[i] > 0 {
			norm /= ai.desvios[i]
		}
		soma += ai.pesos[i] * norm
	}
	return soma
}

// PredictRouteQuality prediz a qualidade da rota combinando o modelo
// treinado (peso 0.7) com o score heurístico (peso 0.3). O score final
// não é re-limitado: herda eventuais extrapolações do modelo.
// Retorna ErrModeloIndisponivel quando o treinamento falha; nesse caso
// o chamador deve usar HeuristicOnlyQuality.
func (ai *RouteAI) PredictRouteQuality(rota *models.RouteResult, seguranca models.RouteSafetyAnalysis, t Horario) (models.AIAnalysis, error) {
	if err := ai.ensureTrained(); err != nil {
		return models.AIAnalysis{}, err
	}

	caracteristicas := ai.ExtractFeatures(rota, seguranca, t)

	ai.mu.Lock()
	scoreModelo := ai.predizer(caracteristicas)
	ai.mu.Unlock()

	scoreHeuristico := ai.CalculateRouteScore(rota, seguranca)
	scoreFinal := scoreModelo*pesoModelo + scoreHeuristico*pesoHeuristica

	return models.AIAnalysis{
		AIScore:        scoreModelo,
		HeuristicScore: scoreHeuristico,
		FinalScore:     scoreFinal,
		QualityRating:  classificarQualidade(scoreFinal),
		Confidence:     math.Min(1.0, seguranca.DatabaseCoverage/100.0),
	}, nil
}

// HeuristicOnlyQuality monta a análise usando apenas o score
// heurístico. É o fallback explícito quando o modelo está indisponível.
func (ai *RouteAI) HeuristicOnlyQuality(rota *models.RouteResult, seguranca models.RouteSafetyAnalysis) models.AIAnalysis {
	score := ai.CalculateRouteScore(rota, seguranca)
	return models.AIAnalysis{
		AIScore:        score,
		HeuristicScore: score,
		FinalScore:     score,
		QualityRating:  classificarQualidade(score),
		Confidence:     math.Min(1.0, seguranca.DatabaseCoverage/100.0),
	}
}

// classificarQualidade mapeia o score final para a classificação
// de qualidade em quatro níveis.
func classificarQualidade(score float64) string {
	switch {
	case score >= 8:
		return models.QualidadeExcelente
	case score >= 6:
		return models.QualidadeBoa
	case score >= 4:
		return models.QualidadeRegular
	default:
		return models.QualidadeRuim
	}
}

// SuggestImprovements gera sugestões para o trajeto. Cada regra é
// independente e pode acrescentar no máximo uma mensagem; várias podem
// valer ao mesmo tempo.
func (ai *RouteAI) SuggestImprovements(rota *models.RouteResult, seguranca models.RouteSafetyAnalysis, t Horario) []string {
	sugestoes := []string{}

	perigoMedio := seguranca.AverageDangerIndex
	cobertura := seguranca.DatabaseCoverage

	// Sugestões baseadas no horário
	if t.Hora >= 22 || t.Hora <= 6 {
		sugestoes = append(sugestoes, "Considere usar transporte público ou táxi durante a madrugada")
		if perigoMedio > 6 {
			sugestoes = append(sugestoes, "Evite caminhar sozinho neste horário")
		}
	}

	// Sugestões baseadas na segurança
	if perigoMedio > 7 {
		sugestoes = append(sugestoes, "Rota com alto risco - considere alternativas mais seguras")
		sugestoes = append(sugestoes, "Mantenha contato com alguém durante o trajeto")
	} else if perigoMedio > 5 {
		sugestoes = append(sugestoes, "Mantenha atenção redobrada durante o trajeto")
	}

	// Sugestões baseadas na cobertura de dados
	if cobertura < 50 {
		sugestoes = append(sugestoes, "Dados de segurança limitados - mantenha-se em áreas movimentadas")
	}

	// Sugestões baseadas na distância
	if rota.DistanceMeters/1000.0 > 10 {
		sugestoes = append(sugestoes, "Trajeto longo - considere fazer paradas em locais seguros")
	}

	return sugestoes
}

// carregarModelo lê o modelo persistido do disco.
func (ai *RouteAI) carregarModelo() error {
	dados, err := os.ReadFile(ai.modelPath)
	if err != nil {
		return err
	}

	var salvo modeloSalvo
	if err := json.Unmarshal(dados, &salvo); err != nil {
		return err
	}
	if len(salvo.Pesos) != numCaracteristicas || len(salvo.Medias) != numCaracteristicas || len(salvo.Desvios) != numCaracteristicas {
		return fmt.Errorf("modelo persistido com dimensão inesperada")
	}

	ai.pesos = salvo.Pesos
	ai.vies = salvo.Vies
	ai.medias = salvo.Medias
	ai.desvios = salvo.Desvios
	ai.treinado = true
	return nil
}

// salvarModelo persiste coeficientes e estado de normalização.
func (ai *RouteAI) salvarModelo(execucaoID string) error {
	salvo := modeloSalvo{
		Pesos:      ai.pesos,
		Vies:       ai.vies,
		Medias:     ai.medias,
		Desvios:    ai.desvios,
		TreinadoEm: ai.now(),
		ExecucaoID: execucaoID,
	}

	dados, err := json.MarshalIndent(salvo, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ai.modelPath, dados, 0o644)
}

// dividirTreinoTeste embaralha os índices com semente fixa e separa a
// fração de teste no final.
func dividirTreinoTeste(X [][]float64, y []float64, fracaoTeste float64, semente uint64) (XTreino [][]float64, yTreino []float64, XTeste [][]float64, yTeste []float64) {
	n := len(X)
	perm := rand.New(rand.NewPCG(semente, semente)).Perm(n)

	corte := n - int(float64(n)*fracaoTeste)
	for i, idx := range perm {
		if i < corte {
			XTreino = append(XTreino, X[idx])
			yTreino = append(yTreino, y[idx])
		} else {
			XTeste = append(XTeste, X[idx])
			yTeste = append(yTeste, y[idx])
		}
	}
	return XTreino, yTreino, XTeste, yTeste
}

// ajustarEscala calcula média e desvio padrão por característica.
func ajustarEscala(X [][]float64) (medias, desvios []float64) {
	medias = make([]float64, numCaracteristicas)
	desvios = make([]float64, numCaracteristicas)

	coluna := make([]float64, len(X))
	for j := 0; j < numCaracteristicas; j++ {
		for i := range X {
			coluna[i] = X[i][j]
		}
		medias[j] = stat.Mean(coluna, nil)
		desvios[j] = stat.StdDev(coluna, nil)
	}
	return medias, desvios
}

// aplicarEscala normaliza cada característica para média 0 e desvio 1.
// Características constantes (desvio 0) ficam apenas centradas.
func aplicarEscala(X [][]float64, medias, desvios []float64) [][]float64 {
	norm := make([][]float64, len(X))
	for i := range X {
		linha := make([]float64, numCaracteristicas)
		for j := range linha {
			linha[j] = X[i][j] - medias[j]
			if desvios[j] > 0 {
				linha[j] /= desvios[j]
			}
		}
		norm[i] = linha
	}
	return norm
}

// ajustarRidge resolve a regressão ridge em forma fechada:
// (XᵀX + λI)·w = Xᵀy, com coluna de viés sem regularização.
func ajustarRidge(X [][]float64, y []float64, lambda float64) (pesos []float64, vies float64, err error) {
	n := len(X)
	if n == 0 {
		return nil, 0, fmt.Errorf("conjunto de treino vazio")
	}
	d := numCaracteristicas

	// Matriz de desenho com coluna de viés no final
	A := mat.NewDense(n, d+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			A.Set(i, j, X[i][j])
		}
		A.Set(i, d, 1.0)
	}
	yVec := mat.NewVecDense(n, y)

	var G mat.Dense
	G.Mul(A.T(), A)
	for j := 0; j < d; j++ {
		G.Set(j, j, G.At(j, j)+lambda)
	}

	var b mat.VecDense
	b.MulVec(A.T(), yVec)

	var w mat.VecDense
	if err := w.SolveVec(&G, &b); err != nil {
		return nil, 0, fmt.Errorf("falha ao resolver o sistema da regressão: %w", err)
	}

	pesos = make([]float64, d)
	for j := 0; j < d; j++ {
		pesos[j] = w.AtVec(j)
	}
	return pesos, w.AtVec(d), nil
}

// avaliarR2 calcula o coeficiente de determinação R² das predições
// do modelo sobre um conjunto já normalizado.
func avaliarR2(X [][]float64, y []float64, pesos []float64, vies float64) float64 {
	estimativas := make([]float64, len(X))
	for i := range X {
		soma := vies
		for j, p := range pesos {
			soma += p * X[i][j]
		}
		estimativas[i] = soma
	}
	return stat.RSquaredFrom(estimativas, y, nil)
}
