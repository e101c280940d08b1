package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/smartpath-backend/internal/platform/apierr"
)

// RespondAPIError writes err using the status and code carried by an *apierr.Error. Anything
// else is reported as a 500 with a generic message so internal details do not leak.
func RespondAPIError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := ae.Code
		if code == "" {
			code = apierr.CodeInternal
		}
		RespondError(c, status, code, ae)
		return
	}
	RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, errors.New("internal server error"))
}
