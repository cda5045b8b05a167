package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/andrewpaige1/flashdeck-api/apperror"
	"github.com/andrewpaige1/flashdeck-api/services"
)

// Handler serves the REST API on top of the services.
type Handler struct {
	users    *services.UserService
	auth     *services.AuthService
	decks    *services.DeckService
	cards    *services.CardService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewHandler(
	users *services.UserService,
	authService *services.AuthService,
	decks *services.DeckService,
	cards *services.CardService,
	logger *zap.Logger,
) *Handler {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		if o, ok := v.Interface().(optionalString); ok && o.Value != nil {
			return *o.Value
		}
		return nil
	}, optionalString{})

	return &Handler{
		users:    users,
		auth:     authService,
		decks:    decks,
		cards:    cards,
		validate: validate,
		logger:   logger.Named("handlers"),
	}
}

// decode reads the JSON body into dst and validates it.
func (h *Handler) decode(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.logger.Debug("Could not decode request", zap.String("path", r.URL.Path), zap.Error(err))
		return apperror.Wrap(apperror.KindValidation, err, "Invalid request body")
	}
	if err := h.validate.Struct(dst); err != nil {
		return apperror.Wrap(apperror.KindValidation, err, validationMessage(err))
	}
	return nil
}

// optionalString tells an absent JSON field apart from an explicit null.
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return "Invalid request body"
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fieldMessage(fe))
	}
	return strings.Join(messages, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s should not be empty", field)
	case "email":
		return fmt.Sprintf("%s must be an email", field)
	case "min":
		return fmt.Sprintf("%s must be longer than or equal to %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be shorter than or equal to %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of the following values: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be a positive number", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}
