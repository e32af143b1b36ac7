package middleware

import (
	"net/http"

	"stockbrief/config"

	"github.com/danielgtaylor/huma/v2"
)

// AdminKeyMiddleware guards the management endpoints with a shared key.
// When ADMIN_API_KEY is unset the instance runs in single-user mode and
// the endpoints stay open.
func AdminKeyMiddleware(api huma.API, cfg *config.ConfigManager) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		expected := cfg.GetConfig().AdminApiKey
		if expected == "" {
			next(ctx)
			return
		}

		if ctx.Header("X-Api-Key") != expected {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next(ctx)
	}
}
