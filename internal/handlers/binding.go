package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/middleware"
	"github.com/yukikurage/roster-api/internal/services"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report the json name of a field
// rather than its Go name.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes the request body into req. On failure it writes the
// error response and returns false.
func bindJSON(c *gin.Context, req interface{}) bool {
	useJSONFieldNames()
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apierrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apierrors.FieldError{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
		apierrors.RespondWithError(c, apierrors.Validation(fields...))
		return false
	}
	apierrors.RespondBadRequest(c, "Invalid request body")
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}

// parseID reads a numeric path parameter.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.RespondBadRequest(c, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return id, true
}

// caller returns the authenticated caller set by RequireAuth.
func caller(c *gin.Context) (services.Caller, bool) {
	cl, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.RespondUnauthorized(c, "", "Not authenticated")
		return services.Caller{}, false
	}
	return cl, true
}

// deleted is the body sent after a successful delete.
func deleted(c *gin.Context) {
	apierrors.OK(c, gin.H{})
}
