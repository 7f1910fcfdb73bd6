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
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/buaazp/fasthttprouter"
	"github.com/nisha7908/sui/conf"
	"github.com/nisha7908/sui/index"
	"github.com/nisha7908/sui/log"
	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/pprofhandler"
	"github.com/valyala/fastjson"
)

// Gateway exposes an index over HTTP: JSON lookups by digest, authorized
// writes, and a websocket stream of index events.
type Gateway struct {
	addr string

	index *index.Index

	router *fasthttprouter.Router
	server *fasthttp.Server

	sink *sink

	stopCleanup func()

	enableTimeout bool

	rateLimiter *rateLimiter

	parserPool *fastjson.ParserPool
	arenaPool  *fastjson.ArenaPool
}

func New(idx *index.Index) *Gateway {
	g := &Gateway{
		index: idx,

		sink: newSink(map[string]string{"event": log.KeyEvent, "digest": "digest"}),

		rateLimiter: newRateLimiter(conf.GetRequestsPerSecond()),

		parserPool: new(fastjson.ParserPool),
		arenaPool:  new(fastjson.ArenaPool),
	}

	g.addr = fmt.Sprintf("%s:%d", conf.GetAPIHost(), conf.GetAPIPort())

	log.SetWriter(log.LoggerWebsocket, g)

	g.router = fasthttprouter.New()

	// fasthttprouter treats a method it has no tree for as unknown, so
	// OPTIONS preflights would land on the 404 handler. Route them
	// through CORS instead.
	g.router.HandleOPTIONS = false
	g.router.NotFound = g.notFound()

	// Websocket endpoint.
	g.routeWithMiddleware("GET", "/poll/index",
		g.poll(g.sink), true)

	// Debug endpoint.
	g.routeWithMiddleware("GET", "/debug/*p",
		pprofhandler.PprofHandler, true)

	// Status endpoint.
	g.routeWithMiddleware("GET", "/ledger",
		g.ledgerStatus, true)

	// Lookup endpoints.
	g.routeWithMiddleware("GET", "/tx/:digest",
		g.getTransaction, false)
	g.routeWithMiddleware("GET", "/object/:digest",
		g.getObject, false)
	g.routeWithMiddleware("GET", "/objects",
		g.listObjects, true)
	g.routeWithMiddleware("GET", "/checkpoint/:id",
		g.getCheckpoint, false)
	g.routeWithMiddleware("GET", "/digests",
		g.resolveDigests, true)

	// Write endpoints.
	g.routeWithMiddleware("POST", "/tx",
		g.putTransaction, false, auth)
	g.routeWithMiddleware("POST", "/object",
		g.putObject, false, auth)
	g.routeWithMiddleware("POST", "/checkpoint",
		g.sealCheckpoint, false, auth)

	g.server = &fasthttp.Server{
		Handler: g.router.Handler,

		ReadTimeout: conf.GetAPITimeout(),
	}

	return g
}

// Start listens on the configured host and port. It does not block.
func (g *Gateway) Start() error {
	g.stopCleanup = g.rateLimiter.cleanup(10 * time.Minute)

	ln, err := net.Listen("tcp4", g.addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen to %s", g.addr)
	}

	go func() {
		if err := g.server.Serve(ln); err != nil {
			logger := log.Node()
			logger.Fatal().Err(err).
				Str("addr", g.addr).
				Msg("Failed to serve the HTTP API.")
		}
	}()

	logger := log.Node()
	logger.Info().
		Str("addr", g.addr).
		Msg("Started the HTTP API server.")

	return nil
}

func (g *Gateway) Shutdown() {
	if g.stopCleanup != nil {
		g.stopCleanup()
	}

	log.RemoveWriter(log.LoggerWebsocket)

	close(g.sink.stop)

	if err := g.server.Shutdown(); err != nil {
		logger := log.Node()
		logger.Error().
			Err(err).
			Msg("Failed to stop the HTTP API server.")
	}
}

// helper fn to add middlewares
func (g *Gateway) routeWithMiddleware(method, route string,
	h fasthttp.RequestHandler, rateLimit bool, ms ...middleware) {

	// Middlewares to prepend to ms
	var topMs = make([]middleware, 0, 4)

	// Prepend the recoverer
	topMs = append(topMs, recoverer)

	if rateLimit {
		// Prepend the rate limiter middleware
		topMs = append(topMs, g.rateLimiter.limit(route))
	}

	// Prepend the CORS middleware
	topMs = append(topMs, cors())

	if g.enableTimeout {
		topMs = append(topMs, timeout(conf.GetAPITimeout(), "Request timed out."))
	}

	g.router.Handle(method, route, chain(h, append(topMs, ms...)))
}

func (g *Gateway) notFound() func(ctx *fasthttp.RequestCtx) {
	methods := []string{"GET", "POST", "PUT", "DELETE", "PATCH"}

	notFoundHandler := func(ctx *fasthttp.RequestCtx) {
		ctx.Error(fasthttp.StatusMessage(fasthttp.StatusNotFound),
			fasthttp.StatusNotFound)
	}

	// This cors is only for OPTIONS, so any handler works; it is never
	// invoked for a preflight.
	cors := cors()(notFoundHandler)

	lookupCtx := &fasthttp.RequestCtx{}

	return func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Method()) != "OPTIONS" {
			notFoundHandler(ctx)
			return
		}

		path := string(ctx.Path())

		// Only answer the preflight if the route really exists for some
		// other method.
		for _, m := range methods {
			h, _ := g.router.Lookup(m, path, lookupCtx)
			if h != nil {
				cors(ctx)
				return
			}
		}

		notFoundHandler(ctx)
	}
}

func (g *Gateway) poll(sink *sink) func(ctx *fasthttp.RequestCtx) {
	return func(ctx *fasthttp.RequestCtx) {
		if err := sink.serve(ctx); err != nil {
			g.renderError(ctx, ErrBadRequest(errors.Wrap(err, "failed to init websocket session")))
		}
	}
}

// Write lets the gateway act as a zerolog writer: index events flow in
// here and fan out to websocket clients.
func (g *Gateway) Write(buf []byte) (n int, err error) {
	// A fresh parse, deliberately unpooled: the parsed value rides along
	// with the broadcast and must outlive this call.
	v, err := fastjson.ParseBytes(buf)
	if err != nil {
		return n, errors.Errorf("cannot parse: %q", err)
	}

	mod := v.GetStringBytes(log.KeyModule)
	if len(mod) == 0 {
		return n, errors.Errorf("all logs must have the field %q", log.KeyModule)
	}

	if string(mod) != log.ModuleIndex {
		return len(buf), nil
	}

	cpy := make([]byte, len(buf))
	copy(cpy, buf)

	select {
	case g.sink.broadcast <- broadcastItem{value: v, buf: cpy}:
	default: // drop when the sink is saturated rather than stall logging
	}

	return len(buf), nil
}

func (g *Gateway) render(ctx *fasthttp.RequestCtx, m MarshalableJSON) {
	g.renderWithStatus(ctx, m, http.StatusOK)
}

func (g *Gateway) renderError(ctx *fasthttp.RequestCtx, e *ErrResponse) {
	g.renderWithStatus(ctx, e, e.HTTPStatusCode)
}

func (g *Gateway) renderWithStatus(ctx *fasthttp.RequestCtx, m MarshalableJSON, status int) {
	arena := g.arenaPool.Get()
	defer g.arenaPool.Put(arena)

	b, err := m.MarshalArena(arena)
	if err != nil {
		ctx.Error(fmt.Sprintf(`{ "error": "render error: %s" }`, err.Error()), http.StatusInternalServerError)
		return
	}

	ctx.SetContentType("application/json")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBody(b)
}

// renderList assembles a JSON array response in a pooled buffer;
// SetBody copies it out before the buffer returns to the pool.
func (g *Gateway) renderList(ctx *fasthttp.RequestCtx, items ...MarshalableJSON) {
	arena := g.arenaPool.Get()
	defer g.arenaPool.Put(arena)

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	bb.B = append(bb.B, '[')

	for i, item := range items {
		b, err := item.MarshalArena(arena)
		if err != nil {
			ctx.Error(fmt.Sprintf(`{ "error": "render error: %s" }`, err.Error()), http.StatusInternalServerError)
			return
		}

		if i > 0 {
			bb.B = append(bb.B, ',')
		}

		bb.B = append(bb.B, b...)
	}

	bb.B = append(bb.B, ']')

	ctx.SetContentType("application/json")
	ctx.Response.SetStatusCode(http.StatusOK)
	ctx.Response.SetBody(bb.B)
}
