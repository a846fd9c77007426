package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// mockInvalidator фиксирует вызовы инвалидации кеша лидербордов
type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) Invalidate(quizID uint) {
	m.Called(quizID)
}

// mockNotifier фиксирует рассылку уведомлений об обновлении лидерборда
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyLeaderboardUpdated(quizID uint) {
	m.Called(quizID)
}

func TestScoreService_Submit_Success(t *testing.T) {
	// Arrange
	mockScoreRepo := new(MockScoreRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockUserRepo := new(MockUserRepository)
	invalidator := new(mockInvalidator)
	notifier := new(mockNotifier)

	mockUserRepo.On("GetByID", uint(1)).Return(&entity.User{ID: 1, Username: "alice"}, nil)
	mockQuizRepo.On("GetByID", uint(2)).Return(&entity.Quiz{ID: 2}, nil)
	mockScoreRepo.On("Insert", mock.AnythingOfType("*entity.ScoreRecord")).Return(nil)
	invalidator.On("Invalidate", uint(2)).Return()
	notifier.On("NotifyLeaderboardUpdated", uint(2)).Return()

	scoreService := NewScoreService(mockScoreRepo, mockQuizRepo, mockUserRepo, invalidator, notifier)

	// Act
	record, err := scoreService.Submit(1, 2, 9)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(1), record.UserID)
	assert.Equal(t, uint(2), record.QuizID)
	assert.Equal(t, 9, record.Score)
	invalidator.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestScoreService_Submit_NegativeScoreAllowed(t *testing.T) {
	mockScoreRepo := new(MockScoreRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockUserRepo := new(MockUserRepository)

	mockUserRepo.On("GetByID", uint(1)).Return(&entity.User{ID: 1}, nil)
	mockQuizRepo.On("GetByID", uint(2)).Return(&entity.Quiz{ID: 2}, nil)
	mockScoreRepo.On("Insert", mock.AnythingOfType("*entity.ScoreRecord")).Return(nil)

	scoreService := NewScoreService(mockScoreRepo, mockQuizRepo, mockUserRepo, nil, nil)

	record, err := scoreService.Submit(1, 2, -3)

	require.NoError(t, err)
	assert.Equal(t, -3, record.Score)
}

func TestScoreService_Submit_InsertFailure(t *testing.T) {
	// Arrange: вставка в хранилище падает
	mockScoreRepo := new(MockScoreRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockUserRepo := new(MockUserRepository)
	invalidator := new(mockInvalidator)
	notifier := new(mockNotifier)

	mockUserRepo.On("GetByID", uint(1)).Return(&entity.User{ID: 1}, nil)
	mockQuizRepo.On("GetByID", uint(2)).Return(&entity.Quiz{ID: 2}, nil)
	mockScoreRepo.On("Insert", mock.AnythingOfType("*entity.ScoreRecord")).
		Return(errors.New("connection refused"))

	scoreService := NewScoreService(mockScoreRepo, mockQuizRepo, mockUserRepo, invalidator, notifier)

	// Act
	_, err := scoreService.Submit(1, 2, 9)

	// Assert: ошибка помечена как сбой хранилища, кеш и рассылка не трогаются
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	invalidator.AssertNotCalled(t, "Invalidate", mock.Anything)
	notifier.AssertNotCalled(t, "NotifyLeaderboardUpdated", mock.Anything)
}

func TestScoreService_Submit_UnknownUserOrQuiz(t *testing.T) {
	mockScoreRepo := new(MockScoreRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockUserRepo := new(MockUserRepository)

	mockUserRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)
	mockUserRepo.On("GetByID", uint(1)).Return(&entity.User{ID: 1}, nil)
	mockQuizRepo.On("GetByID", uint(77)).Return(nil, apperrors.ErrNotFound)

	scoreService := NewScoreService(mockScoreRepo, mockQuizRepo, mockUserRepo, nil, nil)

	_, err := scoreService.Submit(99, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = scoreService.Submit(1, 77, 10)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	mockScoreRepo.AssertNotCalled(t, "Insert")
}

func TestScoreService_HasTaken(t *testing.T) {
	mockScoreRepo := new(MockScoreRepository)
	mockScoreRepo.On("ListByUser", uint(1)).Return([]entity.ScoreRecord{
		{ID: 1, UserID: 1, QuizID: 2, Score: 9},
	}, nil)

	scoreService := NewScoreService(mockScoreRepo, new(MockQuizRepository), new(MockUserRepository), nil, nil)

	taken, err := scoreService.HasTaken(1, 2)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = scoreService.HasTaken(1, 3)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestScoreService_TakenQuizIDs_Deduplicates(t *testing.T) {
	// Две записи по одной викторине дают один ID в списке
	mockScoreRepo := new(MockScoreRepository)
	mockScoreRepo.On("ListByUser", uint(1)).Return([]entity.ScoreRecord{
		{ID: 1, UserID: 1, QuizID: 2, Score: 9},
		{ID: 2, UserID: 1, QuizID: 2, Score: 20},
		{ID: 3, UserID: 1, QuizID: 5, Score: -1},
	}, nil)

	scoreService := NewScoreService(mockScoreRepo, new(MockQuizRepository), new(MockUserRepository), nil, nil)

	ids, err := scoreService.TakenQuizIDs(1)

	require.NoError(t, err)
	assert.Equal(t, []uint{2, 5}, ids)
}
