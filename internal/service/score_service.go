package service

import (
	"fmt"
	"log"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// LeaderboardInvalidator сбрасывает кеш лидербордов после новой записи
type LeaderboardInvalidator interface {
	Invalidate(quizID uint)
}

// ScoreNotifier рассылает уведомление об обновлении лидерборда.
// Реализуется WebSocket-хабом; nil означает, что рассылка выключена.
type ScoreNotifier interface {
	NotifyLeaderboardUpdated(quizID uint)
}

// ScoreService принимает итоговые результаты и отвечает за учет попыток
type ScoreService struct {
	scoreRepo   repository.ScoreRepository
	quizRepo    repository.QuizRepository
	userRepo    repository.UserRepository
	invalidator LeaderboardInvalidator
	notifier    ScoreNotifier
}

// NewScoreService создает новый сервис результатов
func NewScoreService(
	scoreRepo repository.ScoreRepository,
	quizRepo repository.QuizRepository,
	userRepo repository.UserRepository,
	invalidator LeaderboardInvalidator,
	notifier ScoreNotifier,
) *ScoreService {
	return &ScoreService{
		scoreRepo:   scoreRepo,
		quizRepo:    quizRepo,
		userRepo:    userRepo,
		invalidator: invalidator,
		notifier:    notifier,
	}
}

// Submit сохраняет итоговый результат попытки. Счет может быть отрицательным.
// Уникальность пары (user, quiz) НЕ проверяется: повторная отправка создает
// вторую запись. Защита от повторных попыток живет на уровне старта сессии,
// а не здесь.
func (s *ScoreService) Submit(userID, quizID uint, score int) (*entity.ScoreRecord, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, fmt.Errorf("%w: user %d not found", apperrors.ErrValidation, userID)
	}
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, fmt.Errorf("%w: quiz %d not found", apperrors.ErrValidation, quizID)
	}

	record := &entity.ScoreRecord{
		UserID: userID,
		QuizID: quizID,
		Score:  score,
	}

	if err := s.scoreRepo.Insert(record); err != nil {
		log.Printf("[ScoreService] Ошибка сохранения результата userID=%d, quizID=%d: %v", userID, quizID, err)
		return nil, fmt.Errorf("%w: failed to save score: %v", apperrors.ErrStoreUnavailable, err)
	}

	log.Printf("[ScoreService] Сохранен результат ID=%d: userID=%d, quizID=%d, score=%d",
		record.ID, userID, quizID, score)

	// Запись уже зафиксирована: сбой кеша или рассылки не откатывает ее
	if s.invalidator != nil {
		s.invalidator.Invalidate(quizID)
	}
	if s.notifier != nil {
		s.notifier.NotifyLeaderboardUpdated(quizID)
	}

	return record, nil
}

// HasTaken проверяет, есть ли у пользователя хотя бы одна запись по викторине
func (s *ScoreService) HasTaken(userID, quizID uint) (bool, error) {
	records, err := s.scoreRepo.ListByUser(userID)
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.QuizID == quizID {
			return true, nil
		}
	}
	return false, nil
}

// TakenQuizIDs возвращает ID викторин, по которым у пользователя есть записи.
// Клиент использует список, чтобы пометить пройденные викторины.
func (s *ScoreService) TakenQuizIDs(userID uint) ([]uint, error) {
	records, err := s.scoreRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(records))
	ids := make([]uint, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.QuizID]; ok {
			continue
		}
		seen[r.QuizID] = struct{}{}
		ids = append(ids, r.QuizID)
	}
	return ids, nil
}

// UserScores возвращает все записи пользователя в порядке создания
func (s *ScoreService) UserScores(userID uint) ([]entity.ScoreRecord, error) {
	return s.scoreRepo.ListByUser(userID)
}
