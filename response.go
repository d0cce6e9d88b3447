package accounts

import (
	stderrors "errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// CodeSuccess is the envelope code for every successful response.
const CodeSuccess = "SUCCESS"

// Envelope is the wire shape of every response, success or failure.
// Result is omitted when there is nothing to return.
type Envelope struct {
	IsSuccess bool   `json:"isSuccess"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Result    any    `json:"result,omitempty"`
}

func SuccessEnvelope(message string, result any) Envelope {
	if message == "" {
		message = "ok"
	}
	return Envelope{
		IsSuccess: true,
		Code:      CodeSuccess,
		Message:   message,
		Result:    result,
	}
}

func FailureEnvelope(code, message string) Envelope {
	return Envelope{
		IsSuccess: false,
		Code:      code,
		Message:   message,
	}
}

// RespondSuccess writes a success envelope with the given status.
func RespondSuccess(c *fiber.Ctx, status int, message string, result any) error {
	return c.Status(status).JSON(SuccessEnvelope(message, result))
}

// RespondError maps any error to the failure envelope. Typed errors keep
// their code and status, everything else collapses to a 500 with a
// generic message so internals never leak to the client.
func RespondError(c *fiber.Ctx, err error) error {
	status, code, message := classifyError(err)
	return c.Status(status).JSON(FailureEnvelope(code, message))
}

// NewErrorHandler builds the app level fiber error handler. Handlers
// return errors instead of writing failures themselves so this is the
// single place response codes are decided.
func NewErrorHandler(logger Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			if richErr.Category == errors.CategoryInternal {
				logger.Error("request failed: %s %s", richErr.Message, print.MaybePrettyJSON(richErr.Metadata))
			}
			return RespondError(c, richErr)
		}

		var fiberErr *fiber.Error
		if stderrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(FailureEnvelope(http.StatusText(fiberErr.Code), fiberErr.Message))
		}

		logger.Error("unexpected error: %v", err)
		return RespondError(c, err)
	}
}

func classifyError(err error) (status int, code, message string) {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred"
	}

	status = richErr.Code
	if status < http.StatusBadRequest || status > 599 {
		status = statusFromCategory(richErr.Category)
	}

	code = richErr.TextCode
	if code == "" {
		code = "INTERNAL_ERROR"
	}

	message = richErr.Message
	if richErr.Category == errors.CategoryInternal {
		message = "an unexpected error occurred"
	}

	return status, code, message
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return http.StatusUnauthorized
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
