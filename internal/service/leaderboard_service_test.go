package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// newTestLeaderboardService собирает сервис без кеша: nil cacheRepo
// отключает кеширование
func newTestLeaderboardService(scoreRepo *MockScoreRepository, limit int) *LeaderboardService {
	return NewLeaderboardService(scoreRepo, nil, limit, "testuser", 30*time.Second)
}

func TestLeaderboardService_Global_DenseRank(t *testing.T) {
	// Arrange: суммы 50, 50, 30 должны дать ранги 1, 1, 2 без пропуска
	mockScoreRepo := new(MockScoreRepository)
	mockScoreRepo.On("GlobalTotals").Return([]entity.UserTotal{
		{UserID: 1, Username: "alice", Total: 50, FirstRecordID: 1},
		{UserID: 2, Username: "bob", Total: 50, FirstRecordID: 3},
		{UserID: 3, Username: "carol", Total: 30, FirstRecordID: 5},
	}, nil)

	lb := newTestLeaderboardService(mockScoreRepo, 10)

	// Act
	entries, err := lb.Global()

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 1, entries[1].Rank, "Равные суммы делят ранг")
	assert.Equal(t, 2, entries[2].Rank, "После ничьей следующий ранг — предыдущий плюс один")
	assert.Equal(t, "alice", entries[0].Username, "При равных суммах первым идет пользователь с более ранней записью")
	assert.Equal(t, "bob", entries[1].Username)
}

func TestLeaderboardService_Global_ExcludesServiceAccount(t *testing.T) {
	// Служебный аккаунт не должен ни отображаться, ни занимать ранг
	mockScoreRepo := new(MockScoreRepository)
	mockScoreRepo.On("GlobalTotals").Return([]entity.UserTotal{
		{UserID: 9, Username: "testuser", Total: 999, FirstRecordID: 1},
		{UserID: 1, Username: "alice", Total: 50, FirstRecordID: 2},
	}, nil)

	lb := newTestLeaderboardService(mockScoreRepo, 10)

	entries, err := lb.Global()

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 1, entries[0].Rank)
}

func TestLeaderboardService_Global_TopNLimit(t *testing.T) {
	mockScoreRepo := new(MockScoreRepository)
	totals := make([]entity.UserTotal, 0, 15)
	for i := 0; i < 15; i++ {
		totals = append(totals, entity.UserTotal{
			UserID:        uint(i + 1),
			Username:      string(rune('a' + i)),
			Total:         100 - i,
			FirstRecordID: uint(i + 1),
		})
	}
	mockScoreRepo.On("GlobalTotals").Return(totals, nil)

	lb := newTestLeaderboardService(mockScoreRepo, 10)

	entries, err := lb.Global()

	require.NoError(t, err)
	assert.Len(t, entries, 10)
	assert.Equal(t, 10, entries[9].Rank)
}

func TestLeaderboardService_ByQuiz_RawRecordsNotSummed(t *testing.T) {
	// Две записи одного пользователя по одной викторине — две строки
	mockScoreRepo := new(MockScoreRepository)
	mockScoreRepo.On("QuizRecords", uint(5)).Return([]entity.QuizRecord{
		{RecordID: 1, Username: "alice", Score: 20},
		{RecordID: 3, Username: "alice", Score: 20},
		{RecordID: 2, Username: "bob", Score: 9},
	}, nil)

	lb := newTestLeaderboardService(mockScoreRepo, 10)

	entries, err := lb.ByQuiz(5)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 1, entries[1].Rank, "Одинаковые очки двух попыток делят ранг")
	assert.Equal(t, 2, entries[2].Rank)
}

func TestLeaderboardService_Global_UsesCacheWhenPresent(t *testing.T) {
	// Arrange: кеш отдает готовый лидерборд, репозиторий не трогается
	mockScoreRepo := new(MockScoreRepository)
	mockCacheRepo := new(MockCacheRepository)
	mockCacheRepo.On("GetJSON", "leaderboard:global", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(1).(*[]entity.LeaderboardEntry)
			*dest = []entity.LeaderboardEntry{{Username: "cached", Score: 42, Rank: 1}}
		}).
		Return(nil)

	lb := NewLeaderboardService(mockScoreRepo, mockCacheRepo, 10, "testuser", 30*time.Second)

	// Act
	entries, err := lb.Global()

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cached", entries[0].Username)
	mockScoreRepo.AssertNotCalled(t, "GlobalTotals")
}

func TestLeaderboardService_Global_CacheMissFallsThrough(t *testing.T) {
	mockScoreRepo := new(MockScoreRepository)
	mockCacheRepo := new(MockCacheRepository)
	mockCacheRepo.On("GetJSON", "leaderboard:global", mock.Anything).Return(apperrors.ErrNotFound)
	mockCacheRepo.On("SetJSON", "leaderboard:global", mock.Anything, 30*time.Second).Return(nil)
	mockScoreRepo.On("GlobalTotals").Return([]entity.UserTotal{
		{UserID: 1, Username: "alice", Total: 10, FirstRecordID: 1},
	}, nil)

	lb := NewLeaderboardService(mockScoreRepo, mockCacheRepo, 10, "testuser", 30*time.Second)

	entries, err := lb.Global()

	require.NoError(t, err)
	require.Len(t, entries, 1)
	mockCacheRepo.AssertExpectations(t)
}

func TestLeaderboardService_Invalidate(t *testing.T) {
	mockCacheRepo := new(MockCacheRepository)
	mockCacheRepo.On("Delete", "leaderboard:global").Return(nil)
	mockCacheRepo.On("Delete", "leaderboard:quiz:7").Return(nil)

	lb := NewLeaderboardService(new(MockScoreRepository), mockCacheRepo, 10, "testuser", 30*time.Second)

	lb.Invalidate(7)

	mockCacheRepo.AssertExpectations(t)
}

func TestLeaderboardService_Global_NegativeTotals(t *testing.T) {
	// Отрицательная сумма — валидный результат и участвует в ранжировании
	mockScoreRepo := new(MockScoreRepository)
	mockScoreRepo.On("GlobalTotals").Return([]entity.UserTotal{
		{UserID: 1, Username: "alice", Total: 5, FirstRecordID: 1},
		{UserID: 2, Username: "bob", Total: -3, FirstRecordID: 2},
	}, nil)

	lb := newTestLeaderboardService(mockScoreRepo, 10)

	entries, err := lb.Global()

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, -3, entries[1].Score)
	assert.Equal(t, 2, entries[1].Rank)
}
