package services

import (
	"context"
	"math"
	"testing"

	"github.com/juliosaas/InfraAlert/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB abre um SQLite em memoria e migra apenas o modelo RotaSegura
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("não foi possivel abrir DB de teste: %v", err)
	}
	if err := db.AutoMigrate(&models.RotaSegura{}); err != nil {
		t.Fatalf("falha na migração do modelo RotaSegura: %v", err)
	}
	return db
}

// seedStreet insere uma rua de teste no catálogo.
func seedStreet(t *testing.T, db *gorm.DB, nome, inicio, fim string, indice float64) {
	t.Helper()
	rua := models.RotaSegura{
		NomeRua:              nome,
		HorarioInicio:        inicio,
		HorarioFim:           fim,
		IndicePericulosidade: indice,
	}
	if err := db.Create(&rua).Error; err != nil {
		t.Fatalf("falha ao inserir rua %q: %v", nome, err)
	}
}

func horario(t *testing.T, s string) Horario {
	t.Helper()
	h, err := ParseHorario(s)
	if err != nil {
		t.Fatalf("horário de teste inválido %q: %v", s, err)
	}
	return h
}

// TestParseHorario_Invalido verifica que entrada malformada produz
// erro explícito, distinguível de "fora do período de perigo".
func TestParseHorario_Invalido(t *testing.T) {
	casos := []string{"", "abc", "25:00", "12:61", "12h30"}
	for _, c := range casos {
		if _, err := ParseHorario(c); err == nil {
			t.Errorf("esperava erro para %q, obteve nil", c)
		}
	}
}

// TestInDangerPeriod_CruzaMeiaNoite cobre o período 20:00-05:00,
// que cruza a meia-noite.
func TestInDangerPeriod_CruzaMeiaNoite(t *testing.T) {
	casos := []struct {
		hora    string
		esperar bool
	}{
		{"23:00", true},
		{"06:00", false},
		{"05:00", true},
		{"19:59", false},
		{"20:00", true},
		{"00:00", true},
	}
	for _, c := range casos {
		obtido := InDangerPeriod(horario(t, c.hora), "20:00", "05:00")
		if obtido != c.esperar {
			t.Errorf("20:00-05:00 em %s: esperava %v, obteve %v", c.hora, c.esperar, obtido)
		}
	}
}

// TestInDangerPeriod_MesmoDia cobre um período que não cruza a
// meia-noite (08:00-17:00), com limites inclusivos.
func TestInDangerPeriod_MesmoDia(t *testing.T) {
	casos := []struct {
		hora    string
		esperar bool
	}{
		{"08:00", true},
		{"12:00", true},
		{"17:00", true},
		{"07:59", false},
		{"17:01", false},
	}
	for _, c := range casos {
		obtido := InDangerPeriod(horario(t, c.hora), "08:00", "17:00")
		if obtido != c.esperar {
			t.Errorf("08:00-17:00 em %s: esperava %v, obteve %v", c.hora, c.esperar, obtido)
		}
	}
}

// TestInDangerPeriod_HorarioMalformado verifica o padrão conservador:
// janela irreconhecível nunca marca perigo.
func TestInDangerPeriod_HorarioMalformado(t *testing.T) {
	meioDia := horario(t, "12:00")
	if InDangerPeriod(meioDia, "xx:yy", "05:00") {
		t.Error("início malformado deveria resultar em false")
	}
	if InDangerPeriod(meioDia, "20:00", "zz") {
		t.Error("fim malformado deveria resultar em false")
	}
}

// TestAnalyzeStreet_ForaDoCatalogo verifica exatamente a análise
// padrão para ruas desconhecidas.
func TestAnalyzeStreet_ForaDoCatalogo(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSafetyService(NewCatalogService(db))

	analise, err := svc.AnalyzeStreet(context.Background(), "Rua Inexistente", horario(t, "12:00"))
	if err != nil {
		t.Fatalf("esperava sem erro, obteve: %v", err)
	}

	if analise.FoundInDB {
		t.Error("esperava FoundInDB = false")
	}
	if analise.BaseDangerIndex != 2.0 || analise.CurrentDangerIndex != 2.0 {
		t.Errorf("esperava índices padrão 2.0, obteve base=%v atual=%v", analise.BaseDangerIndex, analise.CurrentDangerIndex)
	}
	if analise.IsDangerTime {
		t.Error("esperava IsDangerTime = false")
	}
	if analise.DangerPeriod != "" {
		t.Errorf("esperava período vazio, obteve %q", analise.DangerPeriod)
	}
}

// TestAnalyzeStreet_ClampDoIndice verifica que o índice efetivo nunca
// passa de 10.0: base 9.0 dentro da janela vira 10.0, não 13.5.
func TestAnalyzeStreet_ClampDoIndice(t *testing.T) {
	db := setupTestDB(t)
	seedStreet(t, db, "Avenida Industrial", "18:00", "08:00", 9.0)
	svc := NewSafetyService(NewCatalogService(db))

	analise, err := svc.AnalyzeStreet(context.Background(), "Avenida Industrial", horario(t, "23:00"))
	if err != nil {
		t.Fatalf("esperava sem erro, obteve: %v", err)
	}

	if !analise.IsDangerTime {
		t.Fatal("esperava IsDangerTime = true às 23:00")
	}
	if analise.CurrentDangerIndex != 10.0 {
		t.Errorf("esperava índice 10.0 (9.0 × 1.5 limitado), obteve %v", analise.CurrentDangerIndex)
	}
	if analise.BaseDangerIndex != 9.0 {
		t.Errorf("índice base deveria ficar intacto, obteve %v", analise.BaseDangerIndex)
	}
}

// TestAnalyzeStreet_SubstringCaseInsensitive verifica a busca por
// substring sem diferenciar maiúsculas.
func TestAnalyzeStreet_SubstringCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	seedStreet(t, db, "Rua General Osorio", "21:30", "05:30", 4.2)
	svc := NewSafetyService(NewCatalogService(db))

	analise, err := svc.AnalyzeStreet(context.Background(), "general osorio", horario(t, "12:00"))
	if err != nil {
		t.Fatalf("esperava sem erro, obteve: %v", err)
	}
	if !analise.FoundInDB {
		t.Fatal("esperava encontrar a rua por substring case-insensitive")
	}
	if analise.BaseDangerIndex != 4.2 {
		t.Errorf("esperava índice base 4.2, obteve %v", analise.BaseDangerIndex)
	}
	if analise.DangerPeriod != "21:30 - 05:30" {
		t.Errorf("esperava período \"21:30 - 05:30\", obteve %q", analise.DangerPeriod)
	}
}

// TestAnalyzeStreet_ForaDaJanela verifica que fora do período de
// perigo o índice efetivo é o índice base.
func TestAnalyzeStreet_ForaDaJanela(t *testing.T) {
	db := setupTestDB(t)
	seedStreet(t, db, "Rua Conceicao", "22:00", "06:00", 2.8)
	svc := NewSafetyService(NewCatalogService(db))

	analise, err := svc.AnalyzeStreet(context.Background(), "Rua Conceicao", horario(t, "14:00"))
	if err != nil {
		t.Fatalf("esperava sem erro, obteve: %v", err)
	}
	if analise.IsDangerTime {
		t.Error("esperava IsDangerTime = false às 14:00")
	}
	if analise.CurrentDangerIndex != 2.8 {
		t.Errorf("esperava índice 2.8 inalterado, obteve %v", analise.CurrentDangerIndex)
	}
}

// TestAnalyzeRoute_Vazia verifica os valores zero bem definidos para
// rota sem ruas.
func TestAnalyzeRoute_Vazia(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSafetyService(NewCatalogService(db))

	analise, err := svc.AnalyzeRoute(context.Background(), nil, horario(t, "12:00"))
	if err != nil {
		t.Fatalf("esperava sem erro, obteve: %v", err)
	}

	if analise.AverageDangerIndex != 0 {
		t.Errorf("esperava média 0, obteve %v", analise.AverageDangerIndex)
	}
	if analise.SafetyLevel != models.NivelSegura {
		t.Errorf("esperava SEGURA, obteve %s", analise.SafetyLevel)
	}
	if analise.DatabaseCoverage != 0 {
		t.Errorf("esperava cobertura 0, obteve %v", analise.DatabaseCoverage)
	}
	if analise.TotalStreets != 0 {
		t.Errorf("esperava 0 ruas, obteve %d", analise.TotalStreets)
	}
}

// TestAnalyzeRoute_LimitesDosNiveis cobre os limites fechados
// 3.0 → SEGURA, 6.0 → MODERADA e 6.01 → PERIGOSA.
func TestAnalyzeRoute_LimitesDosNiveis(t *testing.T) {
	casos := []struct {
		indice float64
		nivel  string
	}{
		{3.0, models.NivelSegura},
		{6.0, models.NivelModerada},
		{6.01, models.NivelPerigosa},
	}

	for _, c := range casos {
		db := setupTestDB(t)
		// Janela que nunca contém 12:00, para a média ser o índice base
		seedStreet(t, db, "Rua Teste", "22:00", "06:00", c.indice)
		svc := NewSafetyService(NewCatalogService(db))

		analise, err := svc.AnalyzeRoute(context.Background(), []string{"Rua Teste"}, horario(t, "12:00"))
		if err != nil {
			t.Fatalf("esperava sem erro, obteve: %v", err)
		}
		if analise.AverageDangerIndex != c.indice {
			t.Errorf("esperava média %v, obteve %v", c.indice, analise.AverageDangerIndex)
		}
		if analise.SafetyLevel != c.nivel {
			t.Errorf("média %v: esperava %s, obteve %s", c.indice, c.nivel, analise.SafetyLevel)
		}
	}
}

// TestAnalyzeRoute_SemDeduplicar verifica que ruas repetidas entram na
// média tantas vezes quantas aparecem na entrada.
func TestAnalyzeRoute_SemDeduplicar(t *testing.T) {
	db := setupTestDB(t)
	seedStreet(t, db, "Rua Repetida", "22:00", "06:00", 6.0)
	svc := NewSafetyService(NewCatalogService(db))

	analise, err := svc.AnalyzeRoute(context.Background(),
		[]string{"Rua Repetida", "Rua Repetida", "Desconhecida"}, horario(t, "12:00"))
	if err != nil {
		t.Fatalf("esperava sem erro, obteve: %v", err)
	}

	if analise.TotalStreets != 3 {
		t.Errorf("esperava 3 ruas (sem deduplicação), obteve %d", analise.TotalStreets)
	}
	// (6.0 + 6.0 + 2.0) / 3
	esperado := 14.0 / 3.0
	if math.Abs(analise.AverageDangerIndex-esperado) > 1e-9 {
		t.Errorf("esperava média %v, obteve %v", esperado, analise.AverageDangerIndex)
	}
	if analise.StreetsInDatabase != 2 {
		t.Errorf("esperava 2 ruas na base, obteve %d", analise.StreetsInDatabase)
	}
}

// TestAnalyzeRoute_CenarioRuaX é o cenário completo: catálogo com
// ("Rua X", 22:00-06:00, 8.0) e rota só com "Rua X" às 23:00.
func TestAnalyzeRoute_CenarioRuaX(t *testing.T) {
	db := setupTestDB(t)
	seedStreet(t, db, "Rua X", "22:00", "06:00", 8.0)
	svc := NewSafetyService(NewCatalogService(db))

	analise, err := svc.AnalyzeRoute(context.Background(), []string{"Rua X"}, horario(t, "23:00"))
	if err != nil {
		t.Fatalf("esperava sem erro, obteve: %v", err)
	}

	if analise.StreetAnalyses[0].CurrentDangerIndex != 10.0 {
		t.Errorf("esperava índice 10.0 (8.0 × 1.5 limitado), obteve %v", analise.StreetAnalyses[0].CurrentDangerIndex)
	}
	if analise.SafetyLevel != models.NivelPerigosa {
		t.Errorf("esperava PERIGOSA, obteve %s", analise.SafetyLevel)
	}
	if analise.DatabaseCoverage != 100 {
		t.Errorf("esperava cobertura 100, obteve %v", analise.DatabaseCoverage)
	}
}

// TestAnalyzeRoute_RuasDesconhecidas é o outro cenário completo:
// nenhuma rua catalogada → média 2.0, SEGURA, cobertura 0.
func TestAnalyzeRoute_RuasDesconhecidas(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSafetyService(NewCatalogService(db))

	analise, err := svc.AnalyzeRoute(context.Background(), []string{"Unknown A", "Unknown B"}, horario(t, "03:00"))
	if err != nil {
		t.Fatalf("esperava sem erro, obteve: %v", err)
	}

	if analise.AverageDangerIndex != 2.0 {
		t.Errorf("esperava média 2.0, obteve %v", analise.AverageDangerIndex)
	}
	if analise.SafetyLevel != models.NivelSegura {
		t.Errorf("esperava SEGURA, obteve %s", analise.SafetyLevel)
	}
	if analise.DatabaseCoverage != 0 {
		t.Errorf("esperava cobertura 0, obteve %v", analise.DatabaseCoverage)
	}
}
