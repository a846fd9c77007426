package entity

import (
	"time"
)

// Quiz представляет викторину. После создания не редактируется, только
// удаляется целиком (вопросы удаляются каскадно).
type Quiz struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Description   string     `gorm:"size:500;not null;default:''" json:"description"`
	IsPointsBased bool       `gorm:"not null;default:true" json:"is_points_based"`
	Questions     []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// HasQuestions проверяет, есть ли у викторины хотя бы один вопрос
func (q *Quiz) HasQuestions() bool {
	return len(q.Questions) > 0
}
