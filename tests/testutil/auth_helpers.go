package testutil

import (
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/sdp-tech/upcy-api/middleware"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, issuer, role string, scopes []string) *validator.ValidatedClaims {
	scopeString := ""
	for i, scope := range scopes {
		if i > 0 {
			scopeString += " "
		}
		scopeString += scope
	}

	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: scopeString,
			Role:  role,
		},
	}
}

// MockAuthMiddleware returns a Gin middleware that injects authenticated
// claims the same way the real JWT middleware does
func MockAuthMiddleware(auth0ID, role, accessToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Set("access_token", accessToken)
		c.Set("validated_claims", MockValidatedClaims(auth0ID, "https://test-issuer/", role, nil))
		c.Next()
	}
}
