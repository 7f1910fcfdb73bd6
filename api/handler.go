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
	"strconv"

	"github.com/nisha7908/sui"
	"github.com/nisha7908/sui/index"
	"github.com/nisha7908/sui/log"
	"github.com/nisha7908/sui/store"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
)

func (g *Gateway) ledgerStatus(ctx *fasthttp.RequestCtx) {
	transactions, objects, checkpoints, err := g.index.Size()
	if err != nil {
		g.renderError(ctx, ErrInternal(err))
		return
	}

	res := &ledgerStatusResponse{
		transactions: transactions,
		objects:      objects,
		checkpoints:  checkpoints,

		live: g.index.NumLive(),
	}

	latest, err := g.index.LatestCheckpoint()

	switch {
	case err == nil:
		res.latest = &latest
	case errors.Cause(err) == store.ErrNotFound:
	default:
		g.renderError(ctx, ErrInternal(err))
		return
	}

	g.render(ctx, res)
}

func (g *Gateway) getTransaction(ctx *fasthttp.RequestCtx) {
	param, ok := ctx.UserValue("digest").(string)
	if !ok {
		g.renderError(ctx, ErrBadRequest(errors.New("could not cast digest into string")))
		return
	}

	digest, err := sui.ParseTransactionDigest(param)
	if err != nil {
		g.renderError(ctx, ErrBadRequest(errors.Wrap(err, "transaction digest must be base58")))
		return
	}

	rec, err := g.index.Transaction(digest)

	switch {
	case err == nil:
	case errors.Cause(err) == store.ErrNotFound:
		g.renderError(ctx, ErrNotFound(errors.Errorf("could not find transaction %s", digest)))
		return
	default:
		g.renderError(ctx, ErrInternal(err))
		return
	}

	g.render(ctx, rec)
}

func (g *Gateway) getObject(ctx *fasthttp.RequestCtx) {
	param, ok := ctx.UserValue("digest").(string)
	if !ok {
		g.renderError(ctx, ErrBadRequest(errors.New("could not cast digest into string")))
		return
	}

	digest, err := sui.ParseObjectDigest(param)
	if err != nil {
		g.renderError(ctx, ErrBadRequest(errors.Wrap(err, "object digest must be base58")))
		return
	}

	rec, err := g.index.Object(digest)

	switch {
	case err == nil:
	case errors.Cause(err) == store.ErrNotFound:
		g.renderError(ctx, ErrNotFound(errors.Errorf("could not find object %s", digest)))
		return
	default:
		g.renderError(ctx, ErrInternal(err))
		return
	}

	g.render(ctx, rec)
}

func (g *Gateway) listObjects(ctx *fasthttp.RequestCtx) {
	after := sui.MinObjectDigest

	if raw := ctx.QueryArgs().Peek("after"); len(raw) > 0 {
		digest, err := sui.ParseObjectDigest(string(raw))
		if err != nil {
			g.renderError(ctx, ErrBadRequest(errors.Wrap(err, "could not parse after")))
			return
		}

		after = digest
	}

	limit := ctx.QueryArgs().GetUintOrZero("limit")

	g.render(ctx, &objectListResponse{digests: g.index.LiveObjects(after, limit)})
}

// getCheckpoint accepts either a decimal sequence number or a base58
// checkpoint digest.
func (g *Gateway) getCheckpoint(ctx *fasthttp.RequestCtx) {
	param, ok := ctx.UserValue("id").(string)
	if !ok {
		g.renderError(ctx, ErrBadRequest(errors.New("could not cast id into string")))
		return
	}

	var (
		rec index.CheckpointRecord
		err error
	)

	if seq, parseErr := strconv.ParseUint(param, 10, 64); parseErr == nil {
		rec, err = g.index.Checkpoint(seq)
	} else {
		digest, parseErr := sui.ParseCheckpointDigest(param)
		if parseErr != nil {
			g.renderError(ctx, ErrBadRequest(errors.New("id is neither a sequence number nor a base58 digest")))
			return
		}

		rec, err = g.index.CheckpointByDigest(digest)
	}

	switch {
	case err == nil:
	case errors.Cause(err) == store.ErrNotFound:
		g.renderError(ctx, ErrNotFound(errors.Errorf("could not find checkpoint %s", param)))
		return
	default:
		g.renderError(ctx, ErrInternal(err))
		return
	}

	g.render(ctx, rec)
}

func (g *Gateway) resolveDigests(ctx *fasthttp.RequestCtx) {
	prefix := string(ctx.QueryArgs().Peek("prefix"))
	limit := ctx.QueryArgs().GetUintOrZero("limit")

	matches := g.index.ResolvePrefix(prefix, limit)

	items := make([]MarshalableJSON, 0, len(matches))

	for _, match := range matches {
		items = append(items, prefixMatchResponse(match))
	}

	g.renderList(ctx, items...)
}

func (g *Gateway) putTransaction(ctx *fasthttp.RequestCtx) {
	var rec index.TransactionRecord

	if err := g.parseBody(ctx, &rec); err != nil {
		g.renderError(ctx, ErrBadRequest(err))
		return
	}

	// Sealing, not submission, assigns checkpoint sequences.
	rec.Checkpoint = 0

	if err := g.index.PutTransaction(rec); err != nil {
		g.renderError(ctx, ErrInternal(err))
		return
	}

	g.render(ctx, &MsgResponse{Message: "transaction " + rec.Digest.String() + " recorded"})
}

func (g *Gateway) putObject(ctx *fasthttp.RequestCtx) {
	var rec index.ObjectRecord

	if err := g.parseBody(ctx, &rec); err != nil {
		g.renderError(ctx, ErrBadRequest(err))
		return
	}

	if err := g.index.PutObject(rec); err != nil {
		g.renderError(ctx, ErrInternal(err))
		return
	}

	g.render(ctx, &MsgResponse{Message: "object " + rec.Digest.String() + " recorded"})
}

func (g *Gateway) sealCheckpoint(ctx *fasthttp.RequestCtx) {
	var rec index.CheckpointRecord

	if err := g.parseBody(ctx, &rec); err != nil {
		g.renderError(ctx, ErrBadRequest(err))
		return
	}

	sealed, err := g.index.SealCheckpoint(rec.Digest, rec.Contents, rec.Transactions)
	if err != nil {
		g.renderError(ctx, ErrBadRequest(err))
		return
	}

	g.render(ctx, sealed)
}

func (g *Gateway) parseBody(ctx *fasthttp.RequestCtx, out log.UnmarshalableValue) error {
	parser := g.parserPool.Get()
	defer g.parserPool.Put(parser)

	v, err := parser.ParseBytes(ctx.PostBody())
	if err != nil {
		return errors.Wrap(err, "malformed json body")
	}

	return out.UnmarshalValue(v)
}
