package repository

import (
	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// QuizRepository определяет методы для работы с викторинами
type QuizRepository interface {
	Create(quiz *entity.Quiz) error
	GetByID(id uint) (*entity.Quiz, error)
	// GetWithQuestions возвращает викторину вместе с вопросами в порядке вставки
	GetWithQuestions(id uint) (*entity.Quiz, error)
	List() ([]entity.Quiz, error)
	Delete(id uint) error
}

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	// GetByQuizID возвращает вопросы викторины в порядке вставки (по id)
	GetByQuizID(quizID uint) ([]entity.Question, error)
	CountByQuizID(quizID uint) (int64, error)
}
