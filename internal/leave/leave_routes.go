package leave

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes expects r to already carry AuthMiddleware and ContextLogger.
// rdb may be nil, which disables idempotent replays on apply.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, rdb *redis.Client) {
	applyChain := []gin.HandlerFunc{
		middleware.RateLimitByUser(0.5, 5),
		middleware.RBACAuthorize(rbacService, "leave", "create"),
	}
	if rdb != nil {
		applyChain = append(applyChain, middleware.Idempotency(rdb))
	}
	applyChain = append(applyChain, handler.Apply)

	leaves := r.Group("/leaves")
	{
		leaves.POST("", applyChain...)
		leaves.GET("/mine",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.ListMine,
		)
		leaves.GET("/:id",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.GetByID,
		)
		leaves.PUT("/:id",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "leave", "update"),
			handler.Update,
		)
		leaves.POST("/:id/cancel",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "leave", "cancel"),
			handler.Cancel,
		)
	}
}
