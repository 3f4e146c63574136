package models

// RotaSegura representa uma rua catalogada com seu período de perigo
// e índice de periculosidade (0.0 a 10.0).
type RotaSegura struct {
	ID                   uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NomeRua              string  `gorm:"column:nome_rua;not null" json:"nomeRua"`
	HorarioInicio        string  `gorm:"column:horario_inicio;not null" json:"horarioInicio"` // ex: "20:00"
	HorarioFim           string  `gorm:"column:horario_fim;not null" json:"horarioFim"`       // ex: "05:00"
	IndicePericulosidade float64 `gorm:"column:indice_periculosidade;not null" json:"indicePericulosidade"`
}

func (RotaSegura) TableName() string {
	return "RotaSegura"
}
