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

	"github.com/nisha7908/sui"
	"github.com/nisha7908/sui/index"
	"github.com/nisha7908/sui/log"
	"github.com/nisha7908/sui/sys"
	"github.com/valyala/fastjson"
)

// MarshalableJSON is what the gateway renders: anything able to write
// itself into a fastjson arena.
type MarshalableJSON interface {
	MarshalArena(arena *fastjson.Arena) ([]byte, error)
}

var (
	_ MarshalableJSON = (*MsgResponse)(nil)
	_ MarshalableJSON = (*ErrResponse)(nil)
	_ MarshalableJSON = (*ledgerStatusResponse)(nil)
	_ MarshalableJSON = (*objectListResponse)(nil)
	_ MarshalableJSON = prefixMatchResponse{}
)

type MsgResponse struct {
	Message string `json:"msg"`
}

func (s *MsgResponse) MarshalArena(arena *fastjson.Arena) ([]byte, error) {
	o := arena.NewObject()
	o.Set("msg", arena.NewString(s.Message))

	return o.MarshalTo(nil), nil
}

type ErrResponse struct {
	Err            error `json:"error,omitempty"` // low-level runtime error
	HTTPStatusCode int   `json:"status"`          // http response status code
}

func (e *ErrResponse) MarshalArena(arena *fastjson.Arena) ([]byte, error) {
	o := arena.NewObject()

	o.Set("status", arena.NewString(http.StatusText(e.HTTPStatusCode)))

	if e.Err != nil {
		o.Set("error", arena.NewString(e.Err.Error()))
	}

	return o.MarshalTo(nil), nil
}

func ErrBadRequest(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
	}
}

func ErrNotFound(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
	}
}

func ErrInternal(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
	}
}

type ledgerStatusResponse struct {
	transactions uint64
	objects      uint64
	checkpoints  uint64

	live int

	latest *index.CheckpointRecord
}

func (s *ledgerStatusResponse) MarshalArena(arena *fastjson.Arena) ([]byte, error) {
	o := arena.NewObject()

	err := log.ObjectBatch(arena, o,
		"version", sys.Version,
		"num_transactions", s.transactions,
		"num_objects", s.objects,
		"num_checkpoints", s.checkpoints,
		"num_live_objects", s.live,
	)
	if err != nil {
		return nil, err
	}

	if s.latest != nil {
		latest := arena.NewObject()

		err := log.ObjectBatch(arena, latest,
			"seq", s.latest.Sequence,
			"digest", s.latest.Digest.String(),
			"contents", s.latest.Contents.String(),
			"num_transactions", len(s.latest.Transactions),
		)
		if err != nil {
			return nil, err
		}

		o.Set("latest_checkpoint", latest)
	}

	return o.MarshalTo(nil), nil
}

type prefixMatchResponse index.PrefixMatch

func (m prefixMatchResponse) MarshalArena(arena *fastjson.Arena) ([]byte, error) {
	return log.MarshalObjectBatch(arena,
		"digest", m.Digest,
		"kind", m.Kind,
	)
}

type objectListResponse struct {
	digests []sui.ObjectDigest
}

func (r *objectListResponse) MarshalArena(arena *fastjson.Arena) ([]byte, error) {
	o := arena.NewObject()

	list := arena.NewArray()

	for i, digest := range r.digests {
		list.SetArrayItem(i, log.ArenaBase58(arena, digest.Bytes()))
	}

	o.Set("objects", list)
	o.Set("count", arena.NewNumberInt(len(r.digests)))

	return o.MarshalTo(nil), nil
}
