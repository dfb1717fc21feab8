package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const merchantIDKey = "merchant_id"

// MerchantMiddleware pulls the merchant scope from the X-Merchant-ID header
// (set by the API gateway after token validation) and rejects requests
// without one.
func MerchantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		merchantID := c.GetHeader("X-Merchant-ID")
		if merchantID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing merchant"})
			return
		}
		c.Set(merchantIDKey, merchantID)
		c.Next()
	}
}

func GetMerchantID(c *gin.Context) string {
	return c.GetString(merchantIDKey)
}
