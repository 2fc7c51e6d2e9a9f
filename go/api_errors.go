package inventoryserver

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	productapp "github.com/Apurer/go-inventory-service/internal/domains/products/application"
	apierrors "github.com/Apurer/go-inventory-service/internal/shared/errors"
)

// problems renders transport and infrastructure failures. Business outcomes never
// reach it; they are rendered from the result status.
var problems = apierrors.NewResponder("", mapInventoryError)

func mapInventoryError(err error) (apierrors.ProblemDetail, bool) {
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[jsonFieldName(fe.Field())] = fe.Tag()
		}
		return apierrors.NewValidationProblem(fields), true
	case errors.Is(err, productapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	problems.Respond(c, problem)
}

// respondBindError separates constraint violations from unparseable bodies.
func respondBindError(c *gin.Context, err error) {
	if problem, ok := mapInventoryError(err); ok {
		respondProblem(c, problem)
		return
	}
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func respondError(c *gin.Context, err error) {
	problems.RespondError(c, err)
}
