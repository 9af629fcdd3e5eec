package validators

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/service-scheduler/internal/wallclock"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterBindings adds the "hhmm" and "yyyymmdd" binding tags to gin's
// validator. Safe to call more than once.
func RegisterBindings() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("validators: unexpected binding engine")
			return
		}
		if err := v.RegisterValidation("hhmm", isTime); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("yyyymmdd", isDate)
	})
	return registerErr
}

func isTime(fl validator.FieldLevel) bool {
	return wallclock.IsTime(fl.Field().String())
}

func isDate(fl validator.FieldLevel) bool {
	return wallclock.IsDate(fl.Field().String())
}
