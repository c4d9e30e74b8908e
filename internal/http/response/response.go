package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/sqlcart/internal/domain"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondDomainError maps cart errors to a status and code. Unknown errors are
// reported as internal without their message.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		RespondError(c, http.StatusNotFound, "item_not_found", err)
	case errors.Is(err, domain.ErrCartNotFound):
		RespondError(c, http.StatusNotFound, "cart_not_found", err)
	case errors.Is(err, domain.ErrUserNotFound):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, domain.ErrCurrencyMismatch):
		RespondError(c, http.StatusBadRequest, "currency_mismatch", err)
	case errors.Is(err, domain.ErrInvalidQuantity):
		RespondError(c, http.StatusBadRequest, "invalid_quantity", err)
	case errors.Is(err, domain.ErrInvalidPrice):
		RespondError(c, http.StatusBadRequest, "invalid_price", err)
	case errors.Is(err, domain.ErrInvalidProduct):
		RespondError(c, http.StatusBadRequest, "invalid_product", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
