package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOutOfRange = errors.New("out of range")

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/things/:id", handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/7", nil))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestResponder_MapperWins(t *testing.T) {
	responder := NewResponder("https://inventory.example", func(err error) (ProblemDetail, bool) {
		if errors.Is(err, errOutOfRange) {
			return ErrValidation.WithDetail(err.Error()), true
		}
		return ProblemDetail{}, false
	})

	rec, problem := serve(t, func(c *gin.Context) { responder.RespondError(c, errOutOfRange) })
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, "https://inventory.example"+TypeValidation, problem.Type)
	assert.Equal(t, "/things/7", problem.Instance)
}

func TestResponder_UnknownErrorHidesDetail(t *testing.T) {
	rec, problem := serve(t, func(c *gin.Context) {
		NewResponder("").RespondError(c, errors.New("pq: password authentication failed"))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, problem.Detail)
}

func TestNewValidationProblem(t *testing.T) {
	problem := NewValidationProblem(map[string]string{"stock": "gte"})
	assert.Equal(t, http.StatusBadRequest, problem.Status)
	assert.Equal(t, map[string]string{"stock": "gte"}, problem.Extensions["fields"])
	assert.Nil(t, ErrValidation.Extensions)
}
