package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// QuizService предоставляет методы для работы с викторинами и вопросами
type QuizService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
}

// NewQuizService создает новый сервис викторин
func NewQuizService(quizRepo repository.QuizRepository, questionRepo repository.QuestionRepository) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
	}
}

// ListQuizzes возвращает все викторины без вопросов
func (s *QuizService) ListQuizzes() ([]entity.Quiz, error) {
	return s.quizRepo.List()
}

// GetQuiz возвращает викторину по ID
func (s *QuizService) GetQuiz(id uint) (*entity.Quiz, error) {
	return s.quizRepo.GetByID(id)
}

// GetQuizWithQuestions возвращает викторину вместе с вопросами в порядке вставки
func (s *QuizService) GetQuizWithQuestions(id uint) (*entity.Quiz, error) {
	return s.quizRepo.GetWithQuestions(id)
}

// GetQuestions возвращает вопросы викторины в порядке вставки
func (s *QuizService) GetQuestions(quizID uint) ([]entity.Question, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}
	return s.questionRepo.GetByQuizID(quizID)
}

// CreateQuiz создает новую викторину
func (s *QuizService) CreateQuiz(title, description string, isPointsBased bool) (*entity.Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: quiz title cannot be empty", apperrors.ErrValidation)
	}

	quiz := &entity.Quiz{
		Title:         title,
		Description:   strings.TrimSpace(description),
		IsPointsBased: isPointsBased,
	}

	if err := s.quizRepo.Create(quiz); err != nil {
		log.Printf("[QuizService] Ошибка при создании викторины title=%s: %v", title, err)
		return nil, err
	}

	log.Printf("[QuizService] Создана викторина ID=%d, title=%s", quiz.ID, quiz.Title)
	return quiz, nil
}

// AddQuestion добавляет вопрос к викторине.
// Варианты нормализуются: обрезаются пробелы, пустые отбрасываются, список
// дополняется пустыми строками до OptionSlots. CorrectOption задается
// 1-базным и должен указывать на непустой вариант.
func (s *QuizService) AddQuestion(quizID uint, text string, options []string, correctOption int) (*entity.Question, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: question text cannot be empty", apperrors.ErrValidation)
	}

	normalized := make(entity.StringArray, 0, entity.OptionSlots)
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt != "" {
			normalized = append(normalized, opt)
		}
	}

	if len(normalized) < 2 {
		return nil, fmt.Errorf("%w: question requires at least 2 non-empty options", apperrors.ErrValidation)
	}
	if len(normalized) > entity.OptionSlots {
		return nil, fmt.Errorf("%w: question allows at most %d options", apperrors.ErrValidation, entity.OptionSlots)
	}
	if correctOption < 1 || correctOption > len(normalized) {
		return nil, fmt.Errorf("%w: correct option %d is out of range [1..%d]", apperrors.ErrValidation, correctOption, len(normalized))
	}

	// Дополняем до фиксированного количества слотов
	for len(normalized) < entity.OptionSlots {
		normalized = append(normalized, "")
	}

	question := &entity.Question{
		QuizID:        quizID,
		Text:          text,
		Options:       normalized,
		CorrectOption: correctOption,
	}

	if err := s.questionRepo.Create(question); err != nil {
		log.Printf("[QuizService] Ошибка при добавлении вопроса к викторине ID=%d: %v", quizID, err)
		return nil, err
	}

	return question, nil
}

// DeleteQuiz удаляет викторину вместе с вопросами (каскадно)
func (s *QuizService) DeleteQuiz(id uint) error {
	if err := s.quizRepo.Delete(id); err != nil {
		return err
	}
	log.Printf("[QuizService] Удалена викторина ID=%d", id)
	return nil
}
