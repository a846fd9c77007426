package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service/session"
)

// SessionHandler обрабатывает запросы активной игровой сессии
type SessionHandler struct {
	sessions *session.Manager
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// StartSessionRequest представляет запрос на старт прохождения викторины
type StartSessionRequest struct {
	QuizID uint `json:"quiz_id" binding:"required"`
}

// SelectAnswerRequest представляет выбор варианта ответа.
// SelectedOption — 0-базный индекс среди показанных вариантов. Указатель
// нужен, чтобы binding:"required" пропускал ноль (валидный первый вариант).
type SelectAnswerRequest struct {
	SelectedOption *int `json:"selected_option" binding:"required"`
}

// Start начинает прохождение викторины текущим пользователем
func (h *SessionHandler) Start(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	view, err := h.sessions.Start(userID, req.QuizID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// Answer фиксирует выбор варианта в активной сессии
func (h *SessionHandler) Answer(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req SelectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	view, err := h.sessions.SelectAnswer(userID, *req.SelectedOption)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Next переходит к следующему вопросу активной сессии
func (h *SessionHandler) Next(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	view, err := h.sessions.Advance(userID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Current возвращает снимок активной сессии (переподключение клиента)
func (h *SessionHandler) Current(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	view, err := h.sessions.Current(userID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Cancel прерывает активную сессию без сохранения результата
func (h *SessionHandler) Cancel(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	h.sessions.Cancel(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Session cancelled"})
}

// handleSessionError обрабатывает ошибки игровой сессии
func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrAlreadyTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "You have already taken this quiz", "error_type": "already_taken"})
	case errors.Is(err, session.ErrEmptyQuiz):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quiz has no questions", "error_type": "empty_quiz"})
	case errors.Is(err, session.ErrNoActiveSession):
		c.JSON(http.StatusNotFound, gin.H{"error": "No active session", "error_type": "no_session"})
	case errors.Is(err, session.ErrAnswerPending):
		c.JSON(http.StatusConflict, gin.H{"error": "Current question is not answered yet", "error_type": "answer_pending"})
	case errors.Is(err, session.ErrSessionCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Session already completed", "error_type": "session_completed"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save result, please retry", "error_type": "store_unavailable"})
	default:
		log.Printf("ERROR: Internal server error in SessionHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
