package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/juliosaas/InfraAlert/internal/database/migrations"
)

func main() {
	_ = godotenv.Load("../.env.local")

	connStr := os.Getenv("ANALYTICS_DATABASE_URL")
	if connStr == "" {
		log.Fatal("ANALYTICS_DATABASE_URL não definida")
	}

	// Conectar ao banco
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Erro ao conectar ao banco:", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Erro ao fechar conexão: %v", err)
		}
	}()

	// Testar conexão
	if err := db.Ping(); err != nil {
		log.Fatal("Erro ao pingar o banco:", err)
	}

	fmt.Println("✅ Conectado ao banco com sucesso!")

	// Ler o arquivo SQL do embed
	sqlBytes, err := migrations.Files.ReadFile("route_history_schema.sql")
	if err != nil {
		log.Fatal("Erro ao ler arquivo SQL embutido:", err)
	}

	fmt.Println("📄 Arquivo SQL lido com sucesso!")
	fmt.Println("🚀 Executando migration...")

	// Executar o SQL
	_, err = db.Exec(string(sqlBytes))
	if err != nil {
		log.Fatal("❌ Erro ao executar migration:", err)
	}

	fmt.Println("✅ Migration executada com sucesso!")

	// Verificar tabelas criadas
	rows, err := db.Query(`
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_schema = 'analytics'
		ORDER BY table_name
	`)
	if err != nil {
		log.Fatal("Erro ao verificar tabelas:", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Erro ao fechar rows: %v", err)
		}
	}()

	fmt.Println("\n📋 Tabelas criadas:")
	for rows.Next() {
		var schema, table string
		if err := rows.Scan(&schema, &table); err != nil {
			log.Printf("Erro ao escanear tabela: %v", err)
			continue
		}
		fmt.Printf("  ✓ %s.%s\n", schema, table)
	}

	fmt.Println("\n🎉 Tudo pronto!")
}
