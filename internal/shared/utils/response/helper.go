package response

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// RespondError writes the standard error envelope.
func RespondError(c *gin.Context, code int, kind, message string) {
	c.JSON(code, ErrorResponse{
		Error:   kind,
		Message: message,
	})
}

// RespondValidationError writes a 400 with a field-level error map.
func RespondValidationError(c *gin.Context, code int, fields map[string]string) {
	c.JSON(code, ErrorResponse{
		Error:  KindValidation,
		Errors: fields,
	})
}

// FieldErrors converts a gin binding error into a field->message map.
// Non-validator errors (malformed JSON etc.) map to a single "body" entry.
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return fields
	}

	fields["body"] = err.Error()
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "eq":
		return fmt.Sprintf("must be %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match format %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed validation on %s", fe.Tag())
	}
}
