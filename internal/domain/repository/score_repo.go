package repository

import (
	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// ScoreRepository определяет граничные методы хранилища результатов.
// Вставка одной записи — единица атомарности: никакая многошаговая
// транзакция между компонентами поверх неё не строится.
type ScoreRepository interface {
	// Insert добавляет новую запись и возвращает её идентификатор
	Insert(record *entity.ScoreRecord) error
	ListByUser(userID uint) ([]entity.ScoreRecord, error)
	ListByQuiz(quizID uint) ([]entity.ScoreRecord, error)
	ListAll() ([]entity.ScoreRecord, error)
	// GlobalTotals возвращает суммы очков по пользователям, отсортированные по
	// убыванию суммы; при равных суммах раньше идет пользователь с более
	// ранней первой записью
	GlobalTotals() ([]entity.UserTotal, error)
	// QuizRecords возвращает отдельные записи по викторине с именами
	// пользователей, отсортированные по убыванию очков, затем по id записи
	QuizRecords(quizID uint) ([]entity.QuizRecord, error)
}
