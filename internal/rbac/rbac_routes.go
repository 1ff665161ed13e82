package rbac

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the authorization introspection endpoints. Every
// authenticated role may call them, so no RBAC guard is attached.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/rbac")
	group.GET("/check", handler.Check)
	group.GET("/permissions", handler.Permissions)
}
