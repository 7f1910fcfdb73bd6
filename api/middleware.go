// Copyright (c) 2019 Perlin
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package api

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/nisha7908/sui/conf"
	"github.com/nisha7908/sui/log"
	"github.com/valyala/fasthttp"
)

const authPrefix = "Bearer "

type middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func chain(f fasthttp.RequestHandler, middlewares []middleware) fasthttp.RequestHandler {
	last := f
	for i := len(middlewares) - 1; i >= 0; i-- {
		last = middlewares[i](last)
	}
	return last
}

func recoverer(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	fn := func(ctx *fasthttp.RequestCtx) {
		defer func() {
			if rvr := recover(); rvr != nil {
				logger := log.API("panic")
				logger.Error().
					Interface("panic", rvr).
					Bytes("stack", debug.Stack()).
					Msg("Recovered from a panic inside a handler.")

				ctx.Error(http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		next(ctx)
	}

	return fasthttp.RequestHandler(fn)
}

func timeout(timeout time.Duration, msg string) func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return fasthttp.TimeoutHandler(next, timeout, msg)
	}
}

func parseBearerToken(auth string) string {
	if !strings.HasPrefix(auth, authPrefix) {
		return ""
	}
	return auth[len(authPrefix):]
}

func bearerToken(ctx *fasthttp.RequestCtx) string {
	auth := ctx.Request.Header.Peek("Authorization")
	if auth == nil {
		return ""
	}

	return parseBearerToken(string(auth))
}

// auth admits a request only when a shared secret is configured and
// the bearer token matches it.
func auth(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if secret := conf.GetSecret(); len(secret) > 0 && bearerToken(ctx) == secret {
			next(ctx)
			return
		}

		ctx.Error(fasthttp.StatusMessage(fasthttp.StatusUnauthorized), fasthttp.StatusUnauthorized)
		ctx.Response.Header.Set("WWW-Authenticate", "Bearer realm=Restricted")
	}
}
