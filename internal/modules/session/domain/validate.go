package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "studytrack/internal/platform/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("subject", func(fl validator.FieldLevel) bool {
		return Subject(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("source", func(fl validator.FieldLevel) bool {
		return Source(fl.Field().String()).Valid()
	})
	v.RegisterStructValidation(scoreInRange, Session{})
	return v
}

func scoreInRange(sl validator.StructLevel) {
	s := sl.Current().Interface().(Session)
	if s.Score == nil {
		return
	}
	r, ok := ScoreRangeFor(s.Subject)
	if !ok {
		return
	}
	if *s.Score < r.Min || *s.Score > r.Max {
		sl.ReportError(*s.Score, "Score", "score", "score_range", string(s.Subject))
	}
}

// Validate checks every field constraint and returns an error wrapping
// apperrors.ErrValidation that lists each violation.
func (s Session) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(s, fe))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, "; "))
}

func describe(s Session, fe validator.FieldError) string {
	switch fe.Tag() {
	case "subject":
		return fmt.Sprintf("invalid subject %q", string(s.Subject))
	case "source":
		return fmt.Sprintf("invalid source %q", string(s.Source))
	case "min", "max":
		return fmt.Sprintf("duration must be between %d and %d minutes", MinDuration, MaxDuration)
	case "score_range":
		r, _ := ScoreRangeFor(s.Subject)
		return fmt.Sprintf("score must be between %d and %d for %s", r.Min, r.Max, s.Subject)
	case "required":
		return "invalid date"
	case "gt":
		return "timestamp must be positive"
	default:
		return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
	}
}
