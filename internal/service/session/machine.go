package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// Session хранит состояние одной попытки прохождения викторины одним
// пользователем. Все поля защищены mu; снаружи состояние видно только
// через View-снимки.
//
// Переходы: InProgress -> AnswerLocked (ответ или таймаут),
// AnswerLocked -> InProgress (следующий вопрос) либо Completed (вопросы
// кончились). Фиксация ответа необратима: повторные выборы по тому же
// вопросу игнорируются.
type Session struct {
	mu sync.Mutex

	userID    uint
	quiz      *entity.Quiz
	questions []entity.Question

	index     int // 0-базный индекс текущего вопроса
	score     int
	remaining int
	status    string

	// generation растет при каждом показе вопроса. Горутина отсчета
	// запоминает свое поколение и при срабатывании сверяет его с текущим:
	// тик устаревшего отсчета не трогает состояние.
	generation uint64

	// submitPending выставляется при завершении сессии и снимается после
	// успешного сохранения итога. Пока флаг стоит, повторный advance
	// повторяет отправку вместо ErrSessionCompleted.
	submitPending bool

	notification *Notification
	cancelTimer  context.CancelFunc

	cfg       Config
	submitter Submitter
}

func newSession(userID uint, quiz *entity.Quiz, cfg Config, submitter Submitter) *Session {
	if cfg.CountdownSeconds <= 0 {
		cfg.CountdownSeconds = DefaultConfig().CountdownSeconds
	}
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultConfig().Tick
	}
	return &Session{
		userID:    userID,
		quiz:      quiz,
		questions: quiz.Questions,
		status:    StatusNotStarted,
		cfg:       cfg,
		submitter: submitter,
	}
}

// start показывает первый вопрос и запускает отсчет
func (s *Session) start() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
	s.score = 0
	s.loadQuestionLocked()
	return s.viewLocked()
}

// loadQuestionLocked показывает вопрос с текущим индексом: сбрасывает
// остаток времени, поднимает поколение и перезапускает отсчет.
// Вызывается только под mu.
func (s *Session) loadQuestionLocked() {
	s.status = StatusInProgress
	s.remaining = s.cfg.CountdownSeconds
	s.notification = nil
	s.generation++

	s.stopTimerLocked()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelTimer = cancel
	go s.runCountdown(ctx, s.generation)
}

// runCountdown декрементирует остаток времени раз в тик. При достижении нуля
// фиксирует таймаут: нулевая дельта очков и разблокировка перехода дальше.
// Отсчет чужого поколения молча завершается.
func (s *Session) runCountdown(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.generation != gen || s.status != StatusInProgress {
				s.mu.Unlock()
				return
			}
			s.remaining--
			if s.remaining > 0 {
				s.mu.Unlock()
				continue
			}
			// Время истекло: блокируем ответ без изменения счета
			s.remaining = 0
			s.status = StatusAnswerLocked
			s.notification = &Notification{
				Kind:    KindInfo,
				Title:   "Время вышло!",
				Message: "Вы не успели ответить на этот вопрос.",
			}
			log.Printf("[Session] Таймаут вопроса %d для userID=%d, quizID=%d",
				s.index+1, s.userID, s.quiz.ID)
			s.mu.Unlock()
			return
		}
	}
}

// selectAnswer фиксирует выбор пользователя: 0-базный индекс среди показанных
// вариантов. Правильный ответ дает +10, неправильный -1. Повторный вызов
// после фиксации ничего не меняет и возвращает текущее состояние.
func (s *Session) selectAnswer(selected int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case StatusCompleted:
		return s.viewLocked(), ErrSessionCompleted
	case StatusAnswerLocked:
		// Идемпотентность: ответ уже зафиксирован (или случился таймаут)
		return s.viewLocked(), nil
	case StatusNotStarted:
		return s.viewLocked(), ErrNoActiveSession
	}

	question := &s.questions[s.index]
	if !question.IsValidOption(selected) {
		// Счет и статус не меняются: невалидный индекс не фиксирует ответ
		return s.viewLocked(), fmt.Errorf("%w: invalid option index %d", apperrors.ErrValidation, selected)
	}

	s.stopTimerLocked()
	s.status = StatusAnswerLocked

	if question.IsCorrect(selected) {
		s.score += ScoreCorrect
		s.notification = &Notification{
			Kind:    KindSuccess,
			Title:   "Правильно!",
			Message: fmt.Sprintf("+%d очков", ScoreCorrect),
		}
	} else {
		s.score += ScoreIncorrect
		s.notification = &Notification{
			Kind:    KindError,
			Title:   "Неправильно!",
			Message: fmt.Sprintf("%d очко", ScoreIncorrect),
		}
	}

	return s.viewLocked(), nil
}

// advance переходит к следующему вопросу. Разрешен только после фиксации
// ответа. Если вопросы кончились, сессия завершается и итоговый счет
// отправляется на сохранение. Сбой сохранения не теряет сессию: повторный
// advance повторяет отправку.
func (s *Session) advance() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case StatusCompleted:
		if s.submitPending {
			return s.submitLocked()
		}
		return s.viewLocked(), ErrSessionCompleted
	case StatusInProgress:
		return s.viewLocked(), ErrAnswerPending
	case StatusNotStarted:
		return s.viewLocked(), ErrNoActiveSession
	}

	s.index++
	if s.index < len(s.questions) {
		s.loadQuestionLocked()
		return s.viewLocked(), nil
	}

	// Вопросы кончились: завершаем и отправляем итог
	s.index = len(s.questions) - 1
	s.status = StatusCompleted
	s.stopTimerLocked()
	s.submitPending = true
	s.notification = nil
	return s.submitLocked()
}

// submitLocked отправляет итоговый счет на сохранение. Вызывается под mu:
// сабмиттер ходит в БД, но обратно в сессию не обращается, поэтому
// блокировки не пересекаются. При сбое флаг submitPending остается
// взведенным, а во View попадает уведомление об ошибке сохранения.
func (s *Session) submitLocked() (View, error) {
	if s.submitter != nil {
		if _, err := s.submitter.Submit(s.userID, s.quiz.ID, s.score); err != nil {
			log.Printf("[Session] Ошибка сохранения результата userID=%d, quizID=%d, score=%d: %v",
				s.userID, s.quiz.ID, s.score, err)
			s.notification = &Notification{
				Kind:    KindError,
				Title:   "Результат не сохранен",
				Message: "Не удалось сохранить итоговый счет. Повторите попытку.",
			}
			return s.viewLocked(), fmt.Errorf("%w: failed to save session result", apperrors.ErrStoreUnavailable)
		}
	}
	s.submitPending = false
	s.notification = nil
	return s.viewLocked(), nil
}

// cancel останавливает отсчет. Повторный вызов безопасен.
func (s *Session) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

// stopTimerLocked идемпотентно отменяет текущий отсчет. Вызывается под mu.
func (s *Session) stopTimerLocked() {
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
}

func (s *Session) view() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// viewLocked строит снимок состояния. Вызывается под mu.
func (s *Session) viewLocked() View {
	v := View{
		QuizID:           s.quiz.ID,
		Status:           s.status,
		QuestionIndex:    s.index,
		TotalQuestions:   len(s.questions),
		RemainingSeconds: s.remaining,
		Score:            s.score,
		Notification:     s.notification,
	}
	if s.status == StatusInProgress || s.status == StatusAnswerLocked {
		q := &s.questions[s.index]
		v.QuestionText = q.Text
		v.Options = q.PresentedOptions()
	}
	return v
}
