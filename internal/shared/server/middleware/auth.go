package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobapply-backend/internal/shared/server/respond"
)

const applicantIDKey = "applicantId"

// Auth resolves the authenticated applicant from the identity header set by
// the API gateway. Token issuance and validation happen upstream; this
// service trusts the forwarded numeric id.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		raw := strings.TrimSpace(c.GetHeader("X-Applicant-Id"))
		if raw == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
			return
		}

		applicantID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || applicantID <= 0 {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid identity", nil)
			return
		}

		c.Set(applicantIDKey, applicantID)
		c.Next()
	}
}

// ApplicantIDFromContext fetches the applicant ID set by the auth middleware.
func ApplicantIDFromContext(c *gin.Context) int64 {
	if c == nil {
		return 0
	}
	val, _ := c.Get(applicantIDKey)
	if id, ok := val.(int64); ok {
		return id
	}
	return 0
}
