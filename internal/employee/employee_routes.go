package employee

import (
	"go-leave/internal/domain"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to already carry AuthMiddleware and ContextLogger.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	// Directory changes stay with admins even if the policy is widened.
	manageGuard := middleware.RoleMiddleware(domain.RoleAdmin)

	employees := r.Group("/employees")
	{
		employees.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			handler.GetAll,
		)

		employees.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			handler.GetByID,
		)

		employees.POST("",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "employee", "manage"),
			manageGuard,
			handler.Create,
		)

		employees.PUT("/:id/manager",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "employee", "manage"),
			manageGuard,
			handler.AssignManager,
		)

		employees.PUT("/:id/role",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "employee", "manage"),
			manageGuard,
			handler.ChangeRole,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 2),
			middleware.RBACAuthorize(rbacService, "employee", "manage"),
			manageGuard,
			handler.Deactivate,
		)
	}
}
