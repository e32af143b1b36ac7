package middleware

import (
	"time"

	"stockbrief/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORS(cfg *config.ConfigManager) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},

		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Api-Key",
			"X-Requested-With",
		},

		ExposeHeaders: []string{"Content-Length"},

		MaxAge: 12 * time.Hour,
	}

	// Credentials may not be combined with wildcard origins.
	origins := cfg.GetConfig().FrontendUrls
	if len(origins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = origins
		conf.AllowCredentials = true
	}

	return cors.New(conf)
}
