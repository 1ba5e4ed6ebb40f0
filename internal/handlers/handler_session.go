package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/SscSPs/loan_desk_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// sessionHandler exposes the gate to the SPA: a one-shot read of the current
// session and a server-sent event stream of gate decisions.
type sessionHandler struct {
	gate portssvc.SessionGateSvc
}

func registerSessionRoutes(rg *gin.RouterGroup, gate portssvc.SessionGateSvc) {
	h := &sessionHandler{gate: gate}

	rg.GET("/session", h.getSession)
	rg.GET("/session/events", h.streamSession)
}

// getSession godoc
// @Summary Current session
// @Description Returns the re-validated principal, its permissions and the cached display snapshot.
// @Tags session
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /session [get]
func (h *sessionHandler) getSession(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	resp := dto.SessionResponse{
		Decision:    domain.Decision{State: domain.GateAuthorized, Principal: &principal},
		Permissions: principal.Permissions(),
	}
	if cached, err := h.gate.CachedSession(c.Request.Context(), principal.Kind, principal.ID); err == nil {
		resp.Cached = cached
	}
	c.JSON(http.StatusOK, resp)
}

// streamSession godoc
// @Summary Stream gate decisions
// @Description Emits "decision" events: loading, the first decision, then a new one after every sign-in or sign-out of the principal.
// @Tags session
// @Produce text/event-stream
// @Param kind query string false "Principal kind the page requires"
// @Success 200 {object} domain.Decision
// @Security BearerAuth
// @Router /session/events [get]
func (h *sessionHandler) streamSession(c *gin.Context) {
	token, ok := middleware.GetTokenFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var required domain.PrincipalKind
	if kind := c.Query("kind"); kind != "" {
		parsed, err := domain.ParsePrincipalKind(kind)
		if err != nil {
			respondError(c, err, "Invalid principal kind")
			return
		}
		required = parsed
	}

	ctx := c.Request.Context()
	decisions := make(chan domain.Decision, 8)
	stop := h.gate.Watch(ctx, required, token, func(d domain.Decision) {
		select {
		case decisions <- d:
		case <-ctx.Done():
		}
	})
	defer stop()

	middleware.GetLoggerFromCtx(ctx).Info("Session stream opened", slog.String("required", string(required)))
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case d := <-decisions:
			c.SSEvent("decision", d)
			return true
		}
	})
}
