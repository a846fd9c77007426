package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service"
)

// QuizHandler обрабатывает запросы, связанные с викторинами
type QuizHandler struct {
	quizService  *service.QuizService
	scoreService *service.ScoreService
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(quizService *service.QuizService, scoreService *service.ScoreService) *QuizHandler {
	return &QuizHandler{
		quizService:  quizService,
		scoreService: scoreService,
	}
}

// CreateQuizRequest представляет запрос на создание викторины.
// IsPointsBased — указатель, чтобы отличить явный false от отсутствия поля
// (по умолчанию викторина очковая).
type CreateQuizRequest struct {
	Title         string `json:"title" binding:"required,max=255"`
	Description   string `json:"description" binding:"omitempty,max=500"`
	IsPointsBased *bool  `json:"is_points_based"`
}

// AddQuestionRequest представляет запрос на добавление вопроса.
// CorrectOption задается 1-базным номером варианта.
type AddQuestionRequest struct {
	Text          string   `json:"question_text" binding:"required,max=500"`
	Options       []string `json:"options" binding:"required"`
	CorrectOption int      `json:"correct_option" binding:"required,min=1"`
}

// QuestionResponse — вопрос без правильного ответа
type QuestionResponse struct {
	ID      uint     `json:"id"`
	QuizID  uint     `json:"quiz_id"`
	Text    string   `json:"question_text"`
	Options []string `json:"options"`
}

func toQuestionResponse(q *entity.Question) QuestionResponse {
	return QuestionResponse{
		ID:      q.ID,
		QuizID:  q.QuizID,
		Text:    q.Text,
		Options: q.PresentedOptions(),
	}
}

// ListQuizzes возвращает все викторины. Для аутентифицированного пользователя
// дополнительно возвращается список ID уже пройденных викторин.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.ListQuizzes()
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	response := gin.H{"quizzes": quizzes}

	if userID, exists := c.Get("user_id"); exists {
		takenIDs, err := h.scoreService.TakenQuizIDs(userID.(uint))
		if err != nil {
			log.Printf("[QuizHandler] Ошибка получения пройденных викторин userID=%v: %v", userID, err)
		} else {
			response["taken_quiz_ids"] = takenIDs
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetQuiz возвращает викторину по ID
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	quiz, err := h.quizService.GetQuiz(quizID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// GetQuizQuestions возвращает вопросы викторины без правильных ответов
func (h *QuizHandler) GetQuizQuestions(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	questions, err := h.quizService.GetQuestions(quizID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	response := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		response = append(response, toQuestionResponse(&questions[i]))
	}

	c.JSON(http.StatusOK, gin.H{"questions": response})
}

// CreateQuiz создает новую викторину (только для администраторов)
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	isPointsBased := true
	if req.IsPointsBased != nil {
		isPointsBased = *req.IsPointsBased
	}

	quiz, err := h.quizService.CreateQuiz(req.Title, req.Description, isPointsBased)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// AddQuestion добавляет вопрос к викторине (только для администраторов)
func (h *QuizHandler) AddQuestion(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	var req AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	question, err := h.quizService.AddQuestion(quizID, req.Text, req.Options, req.CorrectOption)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// DeleteQuiz удаляет викторину вместе с вопросами (только для администраторов)
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	if err := h.quizService.DeleteQuiz(quizID); err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted successfully"})
}

// handleQuizError обрабатывает ошибки сервисов викторин
func (h *QuizHandler) handleQuizError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in QuizHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
