package handlers

import (
	"net/http"
	"reflect"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// registerValidators teaches gin's validator about decimal.Decimal: the value is
// validated as its string form, dgt/dgte/dlte compare it numerically with the tag param,
// and dprec caps its decimal places.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("dgt", decimalCompare(func(cmp int) bool { return cmp > 0 }))
		_ = v.RegisterValidation("dgte", decimalCompare(func(cmp int) bool { return cmp >= 0 }))
		_ = v.RegisterValidation("dlte", decimalCompare(func(cmp int) bool { return cmp <= 0 }))
		_ = v.RegisterValidation("dprec", decimalPrecision)
	})
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func decimalCompare(accept func(cmp int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		param, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return accept(value.Cmp(param))
	}
}

// decimalPrecision accepts values with at most param decimal places; trailing zeros don't count.
func decimalPrecision(fl validator.FieldLevel) bool {
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	places, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		return false
	}
	return value.Equal(value.Truncate(int32(places)))
}

// uuidParam returns the named path parameter, answering 400 when it is not a UUID.
func uuidParam(c *gin.Context, name string) (string, bool) {
	value := c.Param(name)
	if _, err := uuid.Parse(value); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name + ": must be a UUID"})
		return "", false
	}
	return value, true
}
