package session

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// Manager — реестр активных сессий, по одной на пользователя.
// Старт новой сессии отменяет предыдущую, если та еще не завершена.
type Manager struct {
	mu       sync.Mutex
	sessions map[uint]*Session // ключ — userID

	quizRepo  repository.QuizRepository
	attempts  AttemptChecker
	submitter Submitter
	cfg       Config
}

// NewManager создает новый менеджер сессий
func NewManager(quizRepo repository.QuizRepository, attempts AttemptChecker, submitter Submitter, cfg Config) *Manager {
	return &Manager{
		sessions:  make(map[uint]*Session),
		quizRepo:  quizRepo,
		attempts:  attempts,
		submitter: submitter,
		cfg:       cfg,
	}
}

// Start начинает прохождение викторины. Отказывает, если пользователь уже
// проходил ее (ErrAlreadyTaken) или у викторины нет вопросов (ErrEmptyQuiz).
func (m *Manager) Start(userID, quizID uint) (View, error) {
	if m.attempts != nil {
		taken, err := m.attempts.HasTaken(userID, quizID)
		if err != nil {
			return View{}, fmt.Errorf("failed to check previous attempts: %w", err)
		}
		if taken {
			return View{}, ErrAlreadyTaken
		}
	}

	quiz, err := m.quizRepo.GetWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return View{}, fmt.Errorf("%w: quiz %d", apperrors.ErrNotFound, quizID)
		}
		return View{}, fmt.Errorf("failed to load quiz: %w", err)
	}
	if !quiz.HasQuestions() {
		return View{}, ErrEmptyQuiz
	}

	sess := newSession(userID, quiz, m.cfg, m.submitter)

	m.mu.Lock()
	if old, ok := m.sessions[userID]; ok {
		old.cancel()
	}
	m.sessions[userID] = sess
	m.mu.Unlock()

	log.Printf("[SessionManager] Начата сессия userID=%d, quizID=%d, вопросов=%d",
		userID, quizID, len(quiz.Questions))
	return sess.start(), nil
}

// SelectAnswer фиксирует ответ в активной сессии пользователя
func (m *Manager) SelectAnswer(userID uint, selected int) (View, error) {
	sess, err := m.get(userID)
	if err != nil {
		return View{}, err
	}
	return sess.selectAnswer(selected)
}

// Advance переходит к следующему вопросу активной сессии пользователя.
// Завершенная сессия удаляется из реестра только после успешного сохранения
// результата; при сбое она остается, и повторный вызов повторяет отправку.
func (m *Manager) Advance(userID uint) (View, error) {
	sess, err := m.get(userID)
	if err != nil {
		return View{}, err
	}

	view, err := sess.advance()
	if err == nil && view.Status == StatusCompleted {
		m.mu.Lock()
		if m.sessions[userID] == sess {
			delete(m.sessions, userID)
		}
		m.mu.Unlock()
		log.Printf("[SessionManager] Завершена сессия userID=%d, quizID=%d, итог=%d",
			userID, view.QuizID, view.Score)
	}
	return view, err
}

// Current возвращает снимок активной сессии пользователя
func (m *Manager) Current(userID uint) (View, error) {
	sess, err := m.get(userID)
	if err != nil {
		return View{}, err
	}
	return sess.view(), nil
}

// Cancel прерывает активную сессию без сохранения результата.
// Отсутствие сессии не считается ошибкой.
func (m *Manager) Cancel(userID uint) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()

	if ok {
		sess.cancel()
		log.Printf("[SessionManager] Отменена сессия userID=%d", userID)
	}
}

// Shutdown останавливает отсчеты всех активных сессий
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for userID, sess := range m.sessions {
		sess.cancel()
		delete(m.sessions, userID)
	}
}

func (m *Manager) get(userID uint) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return sess, nil
}
