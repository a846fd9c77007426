package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupParamRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/quizzes/:id", ExtractUintParam("id", "quizID"), func(c *gin.Context) {
		id := c.MustGet("quizID").(uint)
		c.JSON(http.StatusOK, gin.H{"quiz_id": id})
	})
	return router
}

func TestExtractUintParam_ValidID(t *testing.T) {
	// Arrange
	router := setupParamRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/quizzes/42", nil)

	// Act
	router.ServeHTTP(w, req)

	// Assert: значение разобрано и доступно обработчику как uint
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"quiz_id": 42}`, w.Body.String())
}

func TestExtractUintParam_InvalidID(t *testing.T) {
	router := setupParamRouter()

	for _, raw := range []string{"abc", "-1", "1.5"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/quizzes/"+raw, nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "параметр %q должен отклоняться", raw)
		assert.Contains(t, w.Body.String(), "validation_error")
	}
}
