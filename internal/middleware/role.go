package middleware

import (
	"net/http"
	"net/url"

	"servicebooking/internal/domain"
	"servicebooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// LoginRedirect sends the browser to the login page, remembering where it was going.
func LoginRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	c.Abort()
}

// RequireLogin guards page routes for any authenticated user.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			LoginRedirect(c)
			return
		}
		c.Next()
	}
}

// RequireRole guards page routes. Anonymous users and users with another role
// are redirected to the login page.
func RequireRole(requiredRole domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) || Role(c) != requiredRole {
			LoginRedirect(c)
			return
		}
		c.Next()
	}
}

// RequireAuthJSON guards JSON routes for any authenticated user.
func RequireAuthJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoleJSON ensures that the authenticated user has the specified role.
func RequireRoleJSON(requiredRole domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		if Role(c) != requiredRole {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRoleJSON(domain.RoleAdmin)
}
