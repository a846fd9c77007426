package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/quiz-api/internal/service"
)

// LeaderboardHandler обрабатывает запросы лидербордов
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

// NewLeaderboardHandler создает новый обработчик лидербордов
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// GetGlobal возвращает глобальный лидерборд (суммы очков, топ-N, плотный ранг)
func (h *LeaderboardHandler) GetGlobal(c *gin.Context) {
	entries, err := h.leaderboardService.Global()
	if err != nil {
		log.Printf("ERROR: Ошибка построения глобального лидерборда: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// GetByQuiz возвращает лидерборд конкретной викторины (отдельные попытки)
func (h *LeaderboardHandler) GetByQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	entries, err := h.leaderboardService.ByQuiz(quizID)
	if err != nil {
		log.Printf("ERROR: Ошибка построения лидерборда викторины %d: %v", quizID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// ExportGlobal экспортирует полный глобальный лидерборд в XLSX.
// Используем StreamWriter для эффективной работы с большими файлами.
func (h *LeaderboardHandler) ExportGlobal(c *gin.Context) {
	entries, err := h.leaderboardService.GlobalFull()
	if err != nil {
		log.Printf("ERROR: Ошибка выгрузки лидерборда для экспорта: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	filename := fmt.Sprintf("leaderboard_%s", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Лидерборд"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[LeaderboardHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	// Заголовки
	headers := []interface{}{"Место", "Пользователь", "Очки"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[LeaderboardHandler] Ошибка записи заголовков: %v", err)
	}

	// Данные
	for i, e := range entries {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{e.Rank, sanitizeForExcel(e.Username), e.Score}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[LeaderboardHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[LeaderboardHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[LeaderboardHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
