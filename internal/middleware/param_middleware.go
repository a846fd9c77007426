package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractUintParam разбирает числовой параметр пути и кладет его в контекст
// Gin под ключом contextKey как uint. Используется маршрутами викторин,
// результатов и лидербордов, чтобы обработчики забирали готовый ID через
// c.MustGet вместо повторного разбора строки.
// Нечисловое или отрицательное значение обрывает цепочку с 400.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":      fmt.Sprintf("Invalid %s: %q", paramName, raw),
				"error_type": "validation_error",
			})
			return
		}
		c.Set(contextKey, uint(parsed))
		c.Next()
	}
}
