package balance

import (
	"go-leave/internal/domain"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	balances := r.Group("/balances")
	{
		balances.GET("",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "balance", "read"),
			handler.GetBalances,
		)

		balances.PUT("",
			middleware.RateLimitByUser(1, 10),
			middleware.RBACAuthorize(rbacService, "balance", "allocate"),
			middleware.RoleMiddleware(domain.RoleAdmin),
			handler.Allocate,
		)
	}
}
