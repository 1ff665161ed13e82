package approval

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	approvals := r.Group("/approvals")
	{
		approvals.GET("/pending",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "approval", "read"),
			handler.Pending,
		)
		approvals.POST("/:id/approve",
			middleware.RateLimitByUser(1, 10),
			middleware.RBACAuthorize(rbacService, "approval", "decide"),
			handler.Approve,
		)
		approvals.POST("/:id/reject",
			middleware.RateLimitByUser(1, 10),
			middleware.RBACAuthorize(rbacService, "approval", "decide"),
			handler.Reject,
		)
	}

	r.GET("/leaves/:id/history",
		middleware.RateLimitByUser(5, 20),
		middleware.RBACAuthorize(rbacService, "leave", "read"),
		handler.History,
	)
}
