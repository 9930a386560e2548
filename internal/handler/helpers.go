package handler

import (
	"net/http"
	"reflect"
	"strconv"

	"saripos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fe := err.(validator.ValidationErrors)[0]
		c.JSON(http.StatusBadRequest, apierror.New(fe.Field()+" failed validation on '"+fe.Tag()+"'"))
		return false
	}
	return true
}

// bindQueryAndValidate does the same for query-string filters.
func bindQueryAndValidate(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	if err := validate.Struct(filter); err != nil {
		fe := err.(validator.ValidationErrors)[0]
		c.JSON(http.StatusBadRequest, apierror.New(fe.Field()+" failed validation on '"+fe.Tag()+"'"))
		return false
	}
	return true
}

// parseID parses a numeric path parameter, writing the 400 itself on failure.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// respondError maps typed domain errors to their HTTP status. Anything
// unrecognized becomes an opaque 500.
func respondError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *apierror.NotFoundError:
		c.JSON(http.StatusNotFound, apierror.New(e.Error()))
	case *apierror.ConflictError:
		c.JSON(http.StatusBadRequest, apierror.New(e.Error()))
	case *apierror.ValidationError:
		c.JSON(http.StatusBadRequest, apierror.New(e.Error()))
	case *apierror.UnauthorizedError:
		c.JSON(http.StatusUnauthorized, apierror.New(e.Error()))
	default:
		c.Error(err) // logged by the error handler middleware
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
	}
}
