package session

import (
	"errors"
	"time"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// Очки за исход ответа на один вопрос
const (
	ScoreCorrect   = 10 // Правильный ответ
	ScoreIncorrect = -1 // Неправильный ответ
	ScoreTimeout   = 0  // Время истекло без ответа
)

// Статусы сессии
const (
	StatusNotStarted   = "not_started"
	StatusInProgress   = "in_progress"   // Вопрос показан, отсчет идет, ответ принимается
	StatusAnswerLocked = "answer_locked" // Ответ зафиксирован или время истекло, ждем перехода
	StatusCompleted    = "completed"     // Все вопросы пройдены, результат отправлен
)

// Виды уведомлений, показываемых после фиксации ответа
const (
	KindSuccess = "success"
	KindError   = "error"
	KindInfo    = "info"
)

// Ошибки сессии
var (
	ErrEmptyQuiz        = errors.New("quiz has no questions")
	ErrAlreadyTaken     = errors.New("quiz already taken by this user")
	ErrNoActiveSession  = errors.New("no active session for this user")
	ErrAnswerPending    = errors.New("current question is not answered yet")
	ErrSessionCompleted = errors.New("session already completed")
)

// Notification — сообщение для пользователя после фиксации ответа.
// Ровно один из трех видов: success (правильно), error (неправильно),
// info (время истекло).
type Notification struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Config содержит настройки геймплея сессии
type Config struct {
	// CountdownSeconds — бюджет времени на один вопрос (в тиках)
	CountdownSeconds int
	// Tick — длительность одного тика отсчета. В продакшене секунда,
	// в тестах укорачивается.
	Tick time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		CountdownSeconds: 30,
		Tick:             time.Second,
	}
}

// AttemptChecker отвечает, проходил ли пользователь викторину.
// Реализуется сервисом результатов.
type AttemptChecker interface {
	HasTaken(userID, quizID uint) (bool, error)
}

// Submitter сохраняет итоговый результат завершенной сессии
type Submitter interface {
	Submit(userID, quizID uint, score int) (*entity.ScoreRecord, error)
}

// View — снимок состояния сессии для выдачи клиенту.
// Правильный ответ наружу не попадает: только текст вопроса и варианты.
type View struct {
	QuizID           uint          `json:"quiz_id"`
	Status           string        `json:"status"`
	QuestionIndex    int           `json:"question_index"` // 0-базный индекс текущего вопроса
	TotalQuestions   int           `json:"total_questions"`
	QuestionText     string        `json:"question_text,omitempty"`
	Options          []string      `json:"options,omitempty"`
	RemainingSeconds int           `json:"remaining_seconds"`
	Score            int           `json:"score"`
	Notification     *Notification `json:"notification,omitempty"`
}
