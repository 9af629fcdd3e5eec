package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// StatusFor maps a business kind to its HTTP status.
func StatusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInvalidState:
		return http.StatusBadRequest
	case KindPastDate:
		return http.StatusUnprocessableEntity
	case KindSlotUnavailable:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err as a JSON error response. Anything that is not a
// BusinessError (or an exclusion violation) becomes a 500 with fallbackCode.
func FromError(c *gin.Context, err error, fallbackCode string) {
	if IsExclusionConflict(err) {
		err = ErrSlotUnavailable("time_conflict", slotTakenMessage)
	}

	var be BusinessError
	if errors.As(err, &be) {
		msg := be.Message
		if msg == "" {
			msg = be.Code
		}
		Write(c, StatusFor(be.Kind), be.Code, msg)
		return
	}

	_ = c.Error(err)
	Internal(c, fallbackCode, "Internal error.")
}

const slotTakenMessage = "The time slot was taken by another booking since it was last viewed. Please pick another time."
