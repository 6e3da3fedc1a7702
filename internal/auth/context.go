package auth

import "github.com/gin-gonic/gin"

const claimsKey = "auth.claims"

func setClaims(c *gin.Context, claims *Claims) {
	c.Set(claimsKey, claims)
}

// ClaimsFrom returns the verified token claims of the request, if any.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok && claims != nil
}

// CustomerID is the token subject, or "" for anonymous requests.
func CustomerID(c *gin.Context) string {
	if claims, ok := ClaimsFrom(c); ok {
		return claims.UserID
	}
	return ""
}
