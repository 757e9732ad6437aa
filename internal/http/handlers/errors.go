// Package handlers defines the error codes of the gateway API and the
// mapping from service and upstream failures to them.
//
// Every error response carries an HTTP status and one of these codes; clients
// branch on the code, not the message.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "conflict",
//	  "message": "User already enrolled in module"
//	}
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/spreadit-gateway/internal/services"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeBadGateway       = "bad_gateway"
	ErrCodeGatewayTimeout   = "gateway_timeout"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// failErr maps err onto the error envelope:
//
//	validation failure     400 bad_request
//	no session / 401       401 unauthorized
//	not admin              403 forbidden
//	404                    404 not_found
//	conflict               409 conflict
//	other upstream 4xx     400 bad_request (service message passed through)
//	timeout                504 gateway_timeout
//	transport / 5xx        502 bad_gateway
//	anything else          500 internal_error
func failErr(c *gin.Context, err error) {
	status, code, msg := classify(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	fail(c, status, code, msg)
}

func classify(err error) (status int, code, msg string) {
	msg = err.Error()
	var ue *upstream.Error
	if errors.As(err, &ue) {
		msg = ue.Message()
	}

	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, ErrCodeBadRequest, msg
	case errors.Is(err, services.ErrNoSession):
		return http.StatusUnauthorized, ErrCodeUnauthorized, "please log in"
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrNotOwner):
		return http.StatusForbidden, ErrCodeForbidden, msg
	case errors.Is(err, upstream.ErrUnauthorized):
		if ue == nil || ue.Detail == "" {
			msg = "please log in"
		}
		return http.StatusUnauthorized, ErrCodeUnauthorized, msg
	case errors.Is(err, upstream.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, msg
	case errors.Is(err, upstream.ErrConflict):
		return http.StatusConflict, ErrCodeConflict, msg
	case errors.Is(err, upstream.ErrRejected):
		return http.StatusBadRequest, ErrCodeBadRequest, msg
	case errors.Is(err, upstream.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeGatewayTimeout, "upstream service did not respond in time"
	case errors.Is(err, upstream.ErrTransport), errors.Is(err, upstream.ErrServer):
		return http.StatusBadGateway, ErrCodeBadGateway, msg
	}
	return http.StatusInternalServerError, ErrCodeInternal, "internal server error"
}
