package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
)

// Cross-origin policy for the gateway: any origin may call it, with
// credentials, so browser dashboards can poll a node directly. Distilled
// from labstack/echo's CORS middleware.
type corsConfig struct {
	allowMethods     []string
	exposeHeaders    []string
	allowCredentials bool
	maxAge           int
}

var defaultCORSConfig = corsConfig{
	allowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	exposeHeaders:    []string{"Link"},
	allowCredentials: true,
	maxAge:           300,
}

func cors() func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return corsWithConfig(defaultCORSConfig)
}

func corsWithConfig(config corsConfig) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	allowMethods := strings.Join(config.allowMethods, ",")
	exposeHeaders := strings.Join(config.exposeHeaders, ",")
	maxAge := strconv.Itoa(config.maxAge)

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		fn := func(c *fasthttp.RequestCtx) {
			// With credentials allowed the wildcard is not permitted by
			// browsers; echo the caller's origin back instead.
			origin := string(c.Request.Header.Peek("Origin"))

			if string(c.Method()) != http.MethodOptions {
				c.Response.Header.Add("Vary", "Origin")
				c.Response.Header.Set("Access-Control-Allow-Origin", origin)

				if config.allowCredentials {
					c.Response.Header.Set("Access-Control-Allow-Credentials", "true")
				}

				if exposeHeaders != "" {
					c.Response.Header.Set("Access-Control-Expose-Headers", exposeHeaders)
				}

				next(c)
				return
			}

			// Preflight request.
			c.Response.Header.Add("Vary", "Origin")
			c.Response.Header.Add("Vary", "Access-Control-Request-Method")
			c.Response.Header.Add("Vary", "Access-Control-Request-Headers")

			c.Response.Header.Set("Access-Control-Allow-Origin", origin)
			c.Response.Header.Set("Access-Control-Allow-Methods", allowMethods)

			if config.allowCredentials {
				c.Response.Header.Set("Access-Control-Allow-Credentials", "true")
			}

			if h := string(c.Request.Header.Peek("Access-Control-Request-Headers")); h != "" {
				c.Response.Header.Set("Access-Control-Allow-Headers", h)
			}

			if config.maxAge > 0 {
				c.Response.Header.Set("Access-Control-Max-Age", maxAge)
			}

			c.Response.SetStatusCode(http.StatusNoContent)
		}

		return fasthttp.RequestHandler(fn)
	}
}
