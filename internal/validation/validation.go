package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Error reports which request fields failed validation. Handlers map
// it to a 400 response; the message is safe to show.
type Error struct {
	Fields []string
}

func (e *Error) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// Struct validates a request DTO against its `validate` tags and returns
// an *Error listing the offending fields.
func Struct(dto interface{}) error {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}

	return &Error{Fields: fields}
}
