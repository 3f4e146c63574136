package main

import (
	"fmt"
	"log"

	"github.com/juliosaas/InfraAlert/internal/config"
	"github.com/juliosaas/InfraAlert/internal/database"
	"github.com/juliosaas/InfraAlert/internal/models"
)

// Dados de exemplo para o catálogo RotaSegura (ruas de Campinas).
var ruasExemplo = []models.RotaSegura{
	// Ruas centrais (mais seguras)
	{NomeRua: "Rua Barão de Jaguara", HorarioInicio: "22:00", HorarioFim: "06:00", IndicePericulosidade: 2.5},
	{NomeRua: "Avenida Francisco Glicério", HorarioInicio: "23:00", HorarioFim: "05:00", IndicePericulosidade: 3.0},
	{NomeRua: "Rua Conceição", HorarioInicio: "22:00", HorarioFim: "06:00", IndicePericulosidade: 2.8},
	{NomeRua: "Rua Dr. Quirino", HorarioInicio: "22:30", HorarioFim: "05:30", IndicePericulosidade: 2.2},
	{NomeRua: "Avenida Andrade Neves", HorarioInicio: "23:00", HorarioFim: "05:00", IndicePericulosidade: 3.2},

	// Ruas comerciais (segurança moderada)
	{NomeRua: "Rua 13 de Maio", HorarioInicio: "21:00", HorarioFim: "06:00", IndicePericulosidade: 4.5},
	{NomeRua: "Rua General Osório", HorarioInicio: "21:30", HorarioFim: "05:30", IndicePericulosidade: 4.2},
	{NomeRua: "Rua Regente Feijó", HorarioInicio: "22:00", HorarioFim: "06:00", IndicePericulosidade: 3.8},
	{NomeRua: "Avenida Orosimbo Maia", HorarioInicio: "20:00", HorarioFim: "07:00", IndicePericulosidade: 5.2},
	{NomeRua: "Rua José Paulino", HorarioInicio: "21:00", HorarioFim: "06:00", IndicePericulosidade: 4.0},

	// Ruas periféricas (mais perigosas)
	{NomeRua: "Rua dos Expedicionários", HorarioInicio: "20:00", HorarioFim: "07:00", IndicePericulosidade: 6.8},
	{NomeRua: "Avenida John Boyd Dunlop", HorarioInicio: "19:00", HorarioFim: "07:00", IndicePericulosidade: 7.2},
	{NomeRua: "Rua Luiz Gama", HorarioInicio: "20:30", HorarioFim: "06:30", IndicePericulosidade: 6.5},
	{NomeRua: "Avenida Ruy Rodriguez", HorarioInicio: "19:30", HorarioFim: "07:30", IndicePericulosidade: 7.8},
	{NomeRua: "Rua Campos Sales", HorarioInicio: "20:00", HorarioFim: "07:00", IndicePericulosidade: 6.2},

	// Ruas industriais (muito perigosas à noite)
	{NomeRua: "Avenida das Amoreiras", HorarioInicio: "18:00", HorarioFim: "08:00", IndicePericulosidade: 8.5},
	{NomeRua: "Rua Jequitibás", HorarioInicio: "19:00", HorarioFim: "07:00", IndicePericulosidade: 8.2},
	{NomeRua: "Avenida Mackenzie", HorarioInicio: "18:30", HorarioFim: "07:30", IndicePericulosidade: 8.8},
	{NomeRua: "Rua Abolição", HorarioInicio: "19:00", HorarioFim: "07:00", IndicePericulosidade: 7.9},
	{NomeRua: "Avenida Prestes Maia", HorarioInicio: "18:00", HorarioFim: "08:00", IndicePericulosidade: 8.1},

	// Ruas residenciais nobres (seguras)
	{NomeRua: "Rua Coronel Quirino", HorarioInicio: "23:00", HorarioFim: "05:00", IndicePericulosidade: 1.8},
	{NomeRua: "Avenida Júlio de Mesquita", HorarioInicio: "22:30", HorarioFim: "05:30", IndicePericulosidade: 2.1},
	{NomeRua: "Rua Marechal Deodoro", HorarioInicio: "22:00", HorarioFim: "06:00", IndicePericulosidade: 2.4},
	{NomeRua: "Rua Benjamin Constant", HorarioInicio: "22:30", HorarioFim: "05:30", IndicePericulosidade: 2.0},
	{NomeRua: "Avenida Norte Sul", HorarioInicio: "21:00", HorarioFim: "06:00", IndicePericulosidade: 3.5},

	// Ruas próximas a universidades
	{NomeRua: "Avenida Bertrand Russell", HorarioInicio: "20:00", HorarioFim: "06:00", IndicePericulosidade: 4.8},
	{NomeRua: "Rua Saturnino de Brito", HorarioInicio: "20:30", HorarioFim: "06:30", IndicePericulosidade: 5.1},
	{NomeRua: "Avenida Albert Einstein", HorarioInicio: "21:00", HorarioFim: "06:00", IndicePericulosidade: 4.2},
	{NomeRua: "Rua Roxo Moreira", HorarioInicio: "20:00", HorarioFim: "07:00", IndicePericulosidade: 5.5},
	{NomeRua: "Avenida Atílio Martini", HorarioInicio: "19:30", HorarioFim: "07:30", IndicePericulosidade: 6.0},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Falha ao carregar configs: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Falha ao conectar banco de dados: %v", err)
	}

	if err := db.AutoMigrate(&models.RotaSegura{}); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	fmt.Println("Iniciando população de dados para RotaSegura...")

	inseridas := 0
	for _, rua := range ruasExemplo {
		// Verificar se a rua já existe para evitar duplicatas
		var existente int64
		if err := db.Model(&models.RotaSegura{}).Where("nome_rua = ?", rua.NomeRua).Count(&existente).Error; err != nil {
			log.Fatalf("Erro ao consultar rua %q: %v", rua.NomeRua, err)
		}
		if existente > 0 {
			fmt.Printf("Rua %q já existe, pulando inserção.\n", rua.NomeRua)
			continue
		}

		if err := db.Create(&rua).Error; err != nil {
			log.Fatalf("Erro ao inserir rua %q: %v", rua.NomeRua, err)
		}
		inseridas++
	}

	var total int64
	if err := db.Model(&models.RotaSegura{}).Count(&total).Error; err != nil {
		log.Fatalf("Erro ao contar ruas: %v", err)
	}

	fmt.Printf("População de dados concluída. %d novas ruas inseridas.\n", inseridas)
	fmt.Printf("Total de ruas na tabela RotaSegura: %d\n", total)
}
