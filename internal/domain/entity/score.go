package entity

import (
	"time"
)

// ScoreRecord представляет итоговый результат одной попытки прохождения
// викторины. Записи неизменяемы и только добавляются. Уникальность пары
// (user_id, quiz_id) НЕ обеспечивается схемой: повторная попытка, прошедшая
// мимо клиентской защиты, создаст вторую запись и попадёт в сумму глобального
// лидерборда. Это осознанное продуктовое решение, а не упущение.
type ScoreRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	QuizID    uint      `gorm:"not null;index" json:"quiz_id"`
	Score     int       `gorm:"not null" json:"score"` // Может быть отрицательным
	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (ScoreRecord) TableName() string {
	return "scores"
}
