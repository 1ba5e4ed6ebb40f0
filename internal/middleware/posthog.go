package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/loan_desk_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":                true,
	"/api/v1/session/events": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks API events with PostHog
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		// Set by RequirePrincipal; public routes are not tracked.
		principal, exists := GetPrincipalFromContext(c)
		if !exists {
			return
		}

		// "/api/v1/company/loans/:loan_id/approve" -> "api_v1_company_loans_:loan_id_approve"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status_code":    c.Writer.Status(),
			"principal_kind": string(principal.Kind),
		}
		if principal.CompanyID != "" {
			props["company_id"] = principal.CompanyID
		}

		if len(c.Params) > 0 {
			params := make(map[string]string)
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		posthogClient.Enqueue(principal.ID, eventName, props)
	}
}

// PosthogEvent sends a custom event for the current principal, e.g. a login.
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, distinctID, eventName string, properties map[string]any) {
	if posthogClient == nil || !posthogClient.IsInitialized() || distinctID == "" {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["method"] = c.Request.Method
	properties["path"] = c.Request.URL.Path
	posthogClient.Enqueue(distinctID, eventName, properties)
}
