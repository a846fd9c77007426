package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

const (
	globalLeaderboardKey   = "leaderboard:global"
	quizLeaderboardKeyTmpl = "leaderboard:quiz:%d"
)

// LeaderboardService вычисляет лидерборды из записей scores.
// Лидерборд — производное значение: никогда не сохраняется в БД, только
// кешируется в Redis на короткий TTL и инвалидируется при новой записи.
type LeaderboardService struct {
	scoreRepo repository.ScoreRepository
	cacheRepo repository.CacheRepository

	limit            int
	excludedUsername string
	cacheTTL         time.Duration
}

// NewLeaderboardService создает новый сервис лидербордов
func NewLeaderboardService(
	scoreRepo repository.ScoreRepository,
	cacheRepo repository.CacheRepository,
	limit int,
	excludedUsername string,
	cacheTTL time.Duration,
) *LeaderboardService {
	if limit <= 0 {
		limit = 10
	}
	return &LeaderboardService{
		scoreRepo:        scoreRepo,
		cacheRepo:        cacheRepo,
		limit:            limit,
		excludedUsername: excludedUsername,
		cacheTTL:         cacheTTL,
	}
}

// Global возвращает глобальный лидерборд: сумма очков каждого пользователя по
// всем его записям, плотный ранг, топ-N. Служебный аккаунт исключается ДО
// ранжирования, поэтому он не занимает ранг.
func (s *LeaderboardService) Global() ([]entity.LeaderboardEntry, error) {
	var cached []entity.LeaderboardEntry
	if s.cacheRepo != nil {
		if err := s.cacheRepo.GetJSON(globalLeaderboardKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[LeaderboardService] Ошибка чтения кеша %s: %v", globalLeaderboardKey, err)
		}
	}

	totals, err := s.scoreRepo.GlobalTotals()
	if err != nil {
		return nil, fmt.Errorf("failed to load global totals: %w", err)
	}

	entries := make([]entity.LeaderboardEntry, 0, s.limit)
	rank := 0
	prevScore := 0
	for _, t := range totals {
		if t.Username == s.excludedUsername {
			continue
		}
		if len(entries) == 0 || t.Total != prevScore {
			rank++ // Плотный ранг: без пропусков после ничьих
			prevScore = t.Total
		}
		entries = append(entries, entity.LeaderboardEntry{
			Username: t.Username,
			Score:    t.Total,
			Rank:     rank,
		})
		if len(entries) >= s.limit {
			break
		}
	}

	s.cache(globalLeaderboardKey, entries)
	return entries, nil
}

// ByQuiz возвращает лидерборд конкретной викторины. В отличие от глобального,
// записи не суммируются: каждая попытка — отдельная строка.
func (s *LeaderboardService) ByQuiz(quizID uint) ([]entity.LeaderboardEntry, error) {
	key := fmt.Sprintf(quizLeaderboardKeyTmpl, quizID)

	var cached []entity.LeaderboardEntry
	if s.cacheRepo != nil {
		if err := s.cacheRepo.GetJSON(key, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[LeaderboardService] Ошибка чтения кеша %s: %v", key, err)
		}
	}

	records, err := s.scoreRepo.QuizRecords(quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz records: %w", err)
	}

	entries := make([]entity.LeaderboardEntry, 0, s.limit)
	rank := 0
	prevScore := 0
	for _, r := range records {
		if r.Username == s.excludedUsername {
			continue
		}
		if len(entries) == 0 || r.Score != prevScore {
			rank++
			prevScore = r.Score
		}
		entries = append(entries, entity.LeaderboardEntry{
			Username: r.Username,
			Score:    r.Score,
			Rank:     rank,
		})
		if len(entries) >= s.limit {
			break
		}
	}

	s.cache(key, entries)
	return entries, nil
}

// GlobalFull возвращает полный глобальный лидерборд без ограничения топ-N.
// Используется для экспорта в XLSX, кеш не задействуется.
func (s *LeaderboardService) GlobalFull() ([]entity.LeaderboardEntry, error) {
	totals, err := s.scoreRepo.GlobalTotals()
	if err != nil {
		return nil, fmt.Errorf("failed to load global totals: %w", err)
	}

	entries := make([]entity.LeaderboardEntry, 0, len(totals))
	rank := 0
	prevScore := 0
	for _, t := range totals {
		if t.Username == s.excludedUsername {
			continue
		}
		if len(entries) == 0 || t.Total != prevScore {
			rank++
			prevScore = t.Total
		}
		entries = append(entries, entity.LeaderboardEntry{
			Username: t.Username,
			Score:    t.Total,
			Rank:     rank,
		})
	}
	return entries, nil
}

// Invalidate сбрасывает кеш глобального лидерборда и лидерборда викторины.
// Вызывается после каждой вставки новой записи результата.
func (s *LeaderboardService) Invalidate(quizID uint) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(globalLeaderboardKey); err != nil {
		log.Printf("[LeaderboardService] Ошибка инвалидации кеша %s: %v", globalLeaderboardKey, err)
	}
	key := fmt.Sprintf(quizLeaderboardKeyTmpl, quizID)
	if err := s.cacheRepo.Delete(key); err != nil {
		log.Printf("[LeaderboardService] Ошибка инвалидации кеша %s: %v", key, err)
	}
}

func (s *LeaderboardService) cache(key string, entries []entity.LeaderboardEntry) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.SetJSON(key, entries, s.cacheTTL); err != nil {
		log.Printf("[LeaderboardService] Ошибка записи кеша %s: %v", key, err)
	}
}
