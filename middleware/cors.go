package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig defines the config for CORS middleware
type CORSConfig struct {
	// AllowedOrigins is a list of origins a cross-domain request can be executed from.
	// "*" allows any origin.
	AllowedOrigins []string

	// AllowCredentials indicates whether the request can include user credentials
	AllowCredentials bool

	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string

	// MaxAge indicates how long (in seconds) the results of a preflight request can be cached
	MaxAge int
}

// DefaultCORSConfig returns a default CORS config
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:           3600,
	}
}

// CORS creates a new CORS middleware handler
func CORS(config ...CORSConfig) fiber.Handler {
	cfg := DefaultCORSConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	allowAny := false
	allowedOrigins := make(map[string]struct{})
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			allowAny = true
		}
		allowedOrigins[origin] = struct{}{}
	}

	allowedMethods := strings.Join(cfg.AllowedMethods, ",")
	allowedHeaders := strings.Join(cfg.AllowedHeaders, ",")
	exposedHeaders := strings.Join(cfg.ExposedHeaders, ",")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		c.Vary(fiber.HeaderOrigin)

		allowed := false
		if origin != "" {
			_, listed := allowedOrigins[origin]
			allowed = listed || allowAny
		}

		if allowed {
			// Credentialed requests need the concrete origin echoed back, never "*".
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
			if cfg.AllowCredentials {
				c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
			}
			if exposedHeaders != "" {
				c.Set(fiber.HeaderAccessControlExposeHeaders, exposedHeaders)
			}
		}

		if c.Method() == fiber.MethodOptions {
			if allowed {
				c.Set(fiber.HeaderAccessControlAllowMethods, allowedMethods)
				c.Set(fiber.HeaderAccessControlAllowHeaders, allowedHeaders)
				c.Set(fiber.HeaderAccessControlMaxAge, maxAge)
			}
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}
