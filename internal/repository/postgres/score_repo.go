package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// ScoreRepo реализует repository.ScoreRepository
type ScoreRepo struct {
	db *gorm.DB
}

// NewScoreRepo создает новый репозиторий результатов
func NewScoreRepo(db *gorm.DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

// Insert добавляет запись результата. Одиночный INSERT — атомарная единица
// записи, сериализацию конкурентных писателей обеспечивает сама БД.
func (r *ScoreRepo) Insert(record *entity.ScoreRecord) error {
	return r.db.Create(record).Error
}

// ListByUser возвращает все записи пользователя в порядке создания
func (r *ScoreRepo) ListByUser(userID uint) ([]entity.ScoreRecord, error) {
	var records []entity.ScoreRecord
	err := r.db.Where("user_id = ?", userID).Order("id").Find(&records).Error
	return records, err
}

// ListByQuiz возвращает все записи по викторине в порядке создания
func (r *ScoreRepo) ListByQuiz(quizID uint) ([]entity.ScoreRecord, error) {
	var records []entity.ScoreRecord
	err := r.db.Where("quiz_id = ?", quizID).Order("id").Find(&records).Error
	return records, err
}

// ListAll возвращает все записи в порядке создания.
// Порядок важен: лидерборд использует его для стабильного разрешения ничьих.
func (r *ScoreRepo) ListAll() ([]entity.ScoreRecord, error) {
	var records []entity.ScoreRecord
	err := r.db.Order("id").Find(&records).Error
	return records, err
}

// GlobalTotals агрегирует суммы очков по пользователям.
// Тай-брейк при равных суммах — по id самой ранней записи пользователя.
func (r *ScoreRepo) GlobalTotals() ([]entity.UserTotal, error) {
	var rows []entity.UserTotal
	err := r.db.Table("scores").
		Select("scores.user_id AS user_id, users.username AS username, SUM(scores.score) AS total, MIN(scores.id) AS first_record_id").
		Joins("JOIN users ON users.id = scores.user_id").
		Group("scores.user_id, users.username").
		Order("total DESC, first_record_id ASC").
		Scan(&rows).Error
	return rows, err
}

// QuizRecords возвращает отдельные записи результата по викторине
func (r *ScoreRepo) QuizRecords(quizID uint) ([]entity.QuizRecord, error) {
	var rows []entity.QuizRecord
	err := r.db.Table("scores").
		Select("scores.id AS record_id, users.username AS username, scores.score AS score").
		Joins("JOIN users ON users.id = scores.user_id").
		Where("scores.quiz_id = ?", quizID).
		Order("scores.score DESC, scores.id ASC").
		Scan(&rows).Error
	return rows, err
}
