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
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/nisha7908/sui"
	"github.com/nisha7908/sui/index"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastjson"
)

func TestPollIndex(t *testing.T) {
	idx, base, cleanup := setupGateway(t)
	defer cleanup()

	host := strings.TrimPrefix(base, "http://")

	t.Run("stream", func(t *testing.T) {
		u := url.URL{Scheme: "ws", Host: host, Path: "/poll/index"}
		c, closeConn := tryConnectWebsocket(t, u)
		defer closeConn()

		tx := index.TransactionRecord{
			Digest:  sui.RandomTransactionDigest(),
			Effects: sui.RandomTransactionEffectsDigest(),
			Events:  sui.RandomTransactionEventsDigest(),
		}
		assert.NoError(t, idx.PutTransaction(tx))

		messages := readAllMessages(t, c, 1)
		if !assert.Equal(t, 1, len(messages)) {
			return
		}

		v, err := fastjson.ParseBytes(messages[0])
		if !assert.NoError(t, err) {
			return
		}

		assert.Equal(t, "stored_tx", string(v.GetStringBytes("event")))
		assert.Equal(t, tx.Digest.String(), string(v.GetStringBytes("digest")))
	})

	t.Run("event-filter", func(t *testing.T) {
		u := url.URL{Scheme: "ws", Host: host, Path: "/poll/index", RawQuery: "event=stored_object"}
		c, closeConn := tryConnectWebsocket(t, u)
		defer closeConn()

		tx := index.TransactionRecord{
			Digest:  sui.RandomTransactionDigest(),
			Effects: sui.RandomTransactionEffectsDigest(),
			Events:  sui.RandomTransactionEventsDigest(),
		}
		assert.NoError(t, idx.PutTransaction(tx))

		obj := index.ObjectRecord{
			Digest:      sui.RandomObjectDigest(),
			Transaction: tx.Digest,
			Version:     1,
		}
		assert.NoError(t, idx.PutObject(obj))

		messages := readAllMessages(t, c, 1)
		if !assert.Equal(t, 1, len(messages)) {
			return
		}

		v, err := fastjson.ParseBytes(messages[0])
		if !assert.NoError(t, err) {
			return
		}

		assert.Equal(t, "stored_object", string(v.GetStringBytes("event")))
		assert.Equal(t, obj.Digest.String(), string(v.GetStringBytes("digest")))
	})

	t.Run("backlog-replay", func(t *testing.T) {
		tx := index.TransactionRecord{
			Digest:  sui.RandomTransactionDigest(),
			Effects: sui.RandomTransactionEffectsDigest(),
			Events:  sui.RandomTransactionEventsDigest(),
		}
		assert.NoError(t, idx.PutTransaction(tx))

		// The event fired before the client joined; it must arrive
		// through the backlog replay.
		u := url.URL{Scheme: "ws", Host: host, Path: "/poll/index", RawQuery: "digest=" + tx.Digest.String()}
		c, closeConn := tryConnectWebsocket(t, u)
		defer closeConn()

		messages := readAllMessages(t, c, 1)
		if !assert.Equal(t, 1, len(messages)) {
			return
		}

		v, err := fastjson.ParseBytes(messages[0])
		if !assert.NoError(t, err) {
			return
		}

		assert.Equal(t, tx.Digest.String(), string(v.GetStringBytes("digest")))
	})
}

func tryConnectWebsocket(t *testing.T, url url.URL) (*websocket.Conn, func()) {
	var conn *websocket.Conn
	var resp *http.Response
	var err error

	tries := 0
	tick := time.Tick(100 * time.Millisecond)
	for range tick {
		conn, resp, err = websocket.DefaultDialer.Dial(url.String(), nil)
		if err == nil || (err != nil && tries >= 5) {
			break
		}

		tries++
	}

	assert.NoError(t, err)

	return conn, func() {
		_ = resp.Body.Close()
		_ = conn.Close()
	}
}

func readAllMessages(t *testing.T, client *websocket.Conn, n int) (messages [][]byte) {
	messages = make([][]byte, 0)

	ch := make(chan []byte, 10)
	go func() {
		for {
			_, msg, err := client.ReadMessage()
			if err != nil {
				return
			}

			ch <- msg
		}
	}()

	for {
		select {
		case msg := <-ch:
			messages = append(messages, msg)
			if len(messages) == n {
				return
			}

		case <-time.After(10 * time.Second):
			return
		}
	}
}
