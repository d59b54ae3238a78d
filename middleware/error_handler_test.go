package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newErrorHandlerRouter(environment string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorHandler(environment))
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("database exploded"))
	})
	router.GET("/handled", func(c *gin.Context) {
		_ = c.Error(errors.New("database exploded"))
		c.JSON(http.StatusBadRequest, gin.H{"message": "already handled"})
	})
	return router
}

func TestErrorHandlerDetailInDevelopment(t *testing.T) {
	router := newErrorHandlerRouter("development")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "database exploded")
}

func TestErrorHandlerHidesDetailInProduction(t *testing.T) {
	router := newErrorHandlerRouter("production")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "database exploded")
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
}

func TestErrorHandlerSkipsWrittenResponses(t *testing.T) {
	router := newErrorHandlerRouter("production")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/handled", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already handled")
}
