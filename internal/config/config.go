package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimezone string

	Port             string
	ModelPath        string
	OSRMBaseURL      string
	NominatimBaseURL string
	AnalyticsDBURL   string
}

func Load() (*Config, error) {
	// carrega .env em dev

	_ = godotenv.Load("../.env.local")

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  os.Getenv("DB_SSLMODE"),
		DBTimezone: os.Getenv("DB_TIMEZONE"),

		Port:             getEnvOrDefault("PORT", "8080"),
		ModelPath:        getEnvOrDefault("MODEL_PATH", "/tmp/route_optimization_model.json"),
		OSRMBaseURL:      getEnvOrDefault("OSRM_BASE_URL", "http://router.project-osrm.org"),
		NominatimBaseURL: getEnvOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		AnalyticsDBURL:   os.Getenv("ANALYTICS_DATABASE_URL"),
	}

	fmt.Printf("Config carregada: host=%s port=%s dbname=%s\n", cfg.DBHost, cfg.DBPort, cfg.DBName)

	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBUser == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("Variaveis de ambiente de DB não configuradas")
	}
	return cfg, nil
}

// getEnvOrDefault devolve o valor da variável de ambiente ou o default
// quando ela não está definida.
func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
