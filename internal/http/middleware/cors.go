package middleware

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS applies the cross-origin policy to every response.
// Origins are matched exactly; patterns are regular expressions for hosts such as preview deployments.
// Credentials are allowed unless the allowlist is a wildcard.
//
// OPTIONS requests never reach the router: they are answered here with an empty 200.
func CORS(origins, patterns []string) (fiber.Handler, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("cors origin pattern %q: %w", p, err)
		}
		res = append(res, re)
	}

	wildcard := len(origins) == 0 || slices.Contains(origins, "*")
	cfg := cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     strings.Join([]string{fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions}, ","),
		AllowHeaders:     "Content-Type,Authorization,Accept,Origin,X-Requested-With," + RequestIDHeader,
		ExposeHeaders:    "Content-Length,Content-Disposition," + RequestIDHeader,
		AllowCredentials: !wildcard,
	}
	if !wildcard {
		cfg.AllowOrigins = strings.Join(origins, ",")
		if len(res) > 0 {
			cfg.AllowOriginsFunc = func(origin string) bool {
				for _, re := range res {
					if re.MatchString(origin) {
						return true
					}
				}
				return false
			}
		}
	}
	h := cors.New(cfg)

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodOptions {
			return h(c)
		}

		if c.Get(fiber.HeaderOrigin) != "" {
			if c.Get(fiber.HeaderAccessControlRequestMethod) == "" {
				c.Request().Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodGet)
			}
			if err := h(c); err != nil {
				return err
			}
		}

		c.Response().ResetBody()
		c.Status(fiber.StatusOK)
		return nil
	}, nil
}
