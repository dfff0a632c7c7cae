package auth

import (
	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const contextKey = "auth.principal"

// Principal is the authenticated caller resolved from the Cognito authorizer
// claims of the inbound API Gateway request. It is request scoped and passed
// explicitly to use cases; there is no process-wide session state.
type Principal struct {
	Username string
	Roles    []string
}

// Middleware resolves the Principal for each request and stores it on the gin
// context. Unauthenticated requests (local runs, tests) get a zero Principal.
func Middleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqCtx, ok := core.GetAPIGatewayContextFromContext(c.Request.Context())
		if !ok || reqCtx.Authorizer == nil {
			c.Next()
			return
		}

		claims, ok := reqCtx.Authorizer["claims"].(map[string]interface{})
		if !ok {
			logger.Warn("authorizer present but no claims on request")
			c.Next()
			return
		}

		p := Principal{}
		if username, ok := claims["cognito:username"].(string); ok {
			p.Username = username
		}
		// Cognito emits a single group as a plain string and multiple
		// groups as a list.
		switch groups := claims["cognito:groups"].(type) {
		case string:
			p.Roles = []string{groups}
		case []interface{}:
			for _, g := range groups {
				if s, ok := g.(string); ok {
					p.Roles = append(p.Roles, s)
				}
			}
		}

		c.Set(contextKey, p)
		c.Next()
	}
}

// FromContext returns the Principal stored by Middleware, or a zero value.
func FromContext(c *gin.Context) Principal {
	if v, ok := c.Get(contextKey); ok {
		if p, ok := v.(Principal); ok {
			return p
		}
	}
	return Principal{}
}
