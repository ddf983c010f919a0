package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/xaya/xaya-mcp-server/internal/api/middleware"
)

// SetupRoutes configures all REST API routes. Authentication is only
// enforced when credentials are configured; everything served is public
// chain state.
func SetupRoutes(router *gin.Engine, handler *Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/v1")
	if authCfg.Enabled() {
		v1.Use(middleware.Auth(authCfg))
	}
	{
		// Name endpoints
		v1.GET("/names/:ns/:name", handler.GetProfile)
		v1.GET("/names/:ns/:name/token-id", handler.GetTokenID)
		v1.GET("/names/:ns/:name/owner", handler.GetOwner)
		v1.GET("/names/:ns/:name/registration", handler.GetRegistration)
		v1.GET("/names/:ns/:name/moves", handler.GetMovesForName)
		v1.GET("/names/:ns/:name/permissions", handler.GetDelegationPermissions)
		v1.POST("/names/:ns/:name/permissions/check", handler.CheckMovePermission)

		// Token id endpoints
		v1.GET("/tokens/:id", handler.GetName)
		v1.GET("/tokens/:id/owner", handler.GetOwnerByID)
		v1.GET("/tokens/:id/approved", handler.GetApproved)

		// Address endpoints
		v1.GET("/addresses/:address/balance", handler.GetBalance)
		v1.GET("/addresses/:address/names", handler.GetNamesOwnedBy)
		v1.GET("/addresses/:address/allowances/:spender", handler.GetAllowance)
		v1.GET("/addresses/:address/operators/:operator", handler.GetOperatorApproval)

		// Game endpoints
		v1.GET("/games/:game/moves", handler.GetMovesForGame)

		// Chain wiring
		v1.GET("/chain", handler.GetChainInfo)
	}
}
