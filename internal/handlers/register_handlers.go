package handlers

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/SscSPs/loan_desk_app/cmd/docs"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/middleware"
	"github.com/SscSPs/loan_desk_app/internal/platform/config"
	"github.com/SscSPs/loan_desk_app/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteDeps carries the optional infrastructure the routes use. Nil fields fall
// back to in-process defaults.
type RouteDeps struct {
	LoginLimiter *limiter.Limiter
	Posthog      *utils.PosthogClientWrapper
}

var registerValidatorsOnce sync.Once

// registerValidators adds the custom binding rules used by the DTOs.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := v.RegisterValidation("repayment_term", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseRepaymentTerm(int(fl.Field().Int()))
			return err == nil
		}); err != nil {
			slog.Error("Failed to register repayment_term validator", slog.String("error", err.Error()))
		}
	})
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	registerValidators()

	r.Use(corsMiddleware(cfg))
	r.Use(middleware.PosthogMiddleware(deps.Posthog))

	registerHomeRoutes(r)

	loginLimiter := deps.LoginLimiter
	if loginLimiter == nil {
		var err error
		loginLimiter, err = middleware.NewLoginLimiter(cfg.LoginRateLimit, nil)
		if err != nil {
			slog.Error("Invalid login rate limit, using default", slog.String("error", err.Error()))
			loginLimiter, _ = middleware.NewLoginLimiter(config.DefaultLoginRateLimit, nil)
		}
	}

	registerAuthRoutes(r, services, middleware.RateLimit(loginLimiter), deps.Posthog)
	setupAPIV1Routes(r, services)
	setupSwaggerRoutes(r, cfg)
}

// corsMiddleware allows the configured SPA origin, or any origin when none is set.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.FrontendBaseURL != "" {
		corsCfg.AllowOrigins = []string{cfg.FrontendBaseURL}
	} else {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	return cors.New(corsCfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1")
	gate := services.Gate

	registerPublicRoutes(v1, services)

	company := v1.Group("/company", middleware.RequirePrincipal(gate, domain.PrincipalCompany))
	registerCompanyRoutes(company, services)

	employee := v1.Group("/employee", middleware.RequirePrincipal(gate, domain.PrincipalEmployee))
	registerEmployeeRoutes(employee, services)

	admin := v1.Group("/admin", middleware.RequirePrincipal(gate, domain.PrincipalAdmin))
	registerAdminRoutes(admin, services)

	anyPrincipal := v1.Group("", middleware.RequirePrincipal(gate))
	registerLoanCommentRoutes(anyPrincipal, services.Loan)
	registerSessionRoutes(anyPrincipal, gate)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// currentPrincipal returns the principal set by RequirePrincipal or answers 401.
func currentPrincipal(c *gin.Context) (domain.Principal, bool) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Principal not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return domain.Principal{}, false
	}
	return principal, true
}
