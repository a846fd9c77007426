package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service"
)

// ScoreHandler обрабатывает запросы, связанные с результатами
type ScoreHandler struct {
	scoreService *service.ScoreService
}

// NewScoreHandler создает новый обработчик результатов
func NewScoreHandler(scoreService *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

// SubmitScoreRequest представляет запрос на сохранение результата.
// Счет может быть отрицательным, поэтому без binding:"min".
type SubmitScoreRequest struct {
	QuizID uint `json:"quiz_id" binding:"required"`
	Score  int  `json:"score"`
}

// SubmitScore сохраняет итоговый результат от имени текущего пользователя.
// Запасной путь для клиентов без серверных сессий: обычным способом результат
// отправляет сама сессия при завершении.
func (h *ScoreHandler) SubmitScore(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	record, err := h.scoreService.Submit(userID, req.QuizID, req.Score)
	if err != nil {
		h.handleScoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GetUserScores возвращает все записи результатов пользователя
func (h *ScoreHandler) GetUserScores(c *gin.Context) {
	userID := c.MustGet("targetUserID").(uint)

	records, err := h.scoreService.UserScores(userID)
	if err != nil {
		h.handleScoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scores": records})
}

// GetTakenQuizzes возвращает ID викторин, пройденных текущим пользователем
func (h *ScoreHandler) GetTakenQuizzes(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	ids, err := h.scoreService.TakenQuizIDs(userID)
	if err != nil {
		h.handleScoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"taken_quiz_ids": ids})
}

// handleScoreError обрабатывает ошибки сервиса результатов
func (h *ScoreHandler) handleScoreError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrStoreUnavailable) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save score, please retry", "error_type": "store_unavailable"})
	} else {
		log.Printf("ERROR: Internal server error in ScoreHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
