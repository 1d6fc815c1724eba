package middleware

import "github.com/gin-gonic/gin"

// TenantHeader is the request header carrying the tenant identifier.
const TenantHeader = "X-Tenant-ID"

// tenantKey is the gin context key for the resolved tenant.
const tenantKey = "tenant_id"

// DefaultTenant is used when the request carries no tenant header.
const DefaultTenant = "default"

// Tenant resolves the tenant identifier for the request and stores it in the
// gin context. Requests without a tenant header fall back to DefaultTenant.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := c.GetHeader(TenantHeader)
		if tenant == "" {
			tenant = DefaultTenant
		}
		c.Set(tenantKey, tenant)
		c.Next()
	}
}

// TenantID returns the tenant identifier resolved for the request.
func TenantID(c *gin.Context) string {
	if tenant := c.GetString(tenantKey); tenant != "" {
		return tenant
	}
	return DefaultTenant
}
