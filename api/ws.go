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
	"time"

	"github.com/fasthttp/websocket"
	"github.com/phf/go-queue/queue"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// Number of recent events replayed to a freshly joined client.
	backlogSize = 64
)

var upgrader = websocket.FastHTTPUpgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
		return true
	},
}

type client struct {
	sink *sink
	conn *websocket.Conn

	filters map[string]string
	send    chan []byte
}

func (c *client) readWorker() {
	defer func() {
		c.sink.leave <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { _ = c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

func (c *client) writeWorker() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			// Drain whatever queued up behind this message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					return
				}
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type broadcastItem struct {
	buf   []byte
	value *fastjson.Value
}

// sink fans log events out to websocket clients. filters maps query
// parameters onto the JSON fields clients may narrow the stream by.
type sink struct {
	filters map[string]string

	clients map[*client]struct{}
	backlog *queue.Queue

	broadcast   chan broadcastItem
	join, leave chan *client
	stop        chan struct{}
}

func newSink(filters map[string]string) *sink {
	s := &sink{
		filters: filters,

		clients: make(map[*client]struct{}),
		backlog: queue.New(),

		broadcast: make(chan broadcastItem, 256),
		join:      make(chan *client),
		leave:     make(chan *client),
		stop:      make(chan struct{}),
	}

	go s.run()

	return s
}

func (s *sink) serve(ctx *fasthttp.RequestCtx) error {
	filters := make(map[string]string)
	values := ctx.QueryArgs()

	for queryKey, key := range s.filters {
		if queryValue := values.Peek(queryKey); len(queryValue) > 0 {
			filters[key] = string(queryValue)
		}
	}

	return upgrader.Upgrade(ctx, func(conn *websocket.Conn) {
		client := &client{filters: filters, sink: s, conn: conn, send: make(chan []byte, 256)}
		s.join <- client

		go client.readWorker()

		// Block here to keep the handler, and with it the hijacked
		// connection, alive.
		client.writeWorker()
	})
}

func (s *sink) run() {
	for {
		select {
		case <-s.stop:
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}

			return
		case client := <-s.join:
			s.clients[client] = struct{}{}

			// Replay recent history so a new client does not join blind.
			// Rotating through the queue preserves its order.
			for i := s.backlog.Len(); i > 0; i-- {
				item := s.backlog.PopFront().(broadcastItem)
				s.backlog.PushBack(item)

				if !matches(client.filters, item.value) {
					continue
				}

				select {
				case client.send <- item.buf:
				default:
				}
			}
		case client := <-s.leave:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
		case item := <-s.broadcast:
			s.backlog.PushBack(item)

			for s.backlog.Len() > backlogSize {
				s.backlog.PopFront()
			}

			for client := range s.clients {
				if !matches(client.filters, item.value) {
					continue
				}

				select {
				case client.send <- item.buf:
				default:
					close(client.send)
					delete(s.clients, client)
				}
			}
		}
	}
}

// matches applies a client's filters; a field missing from the event
// does not disqualify it.
func matches(filters map[string]string, v *fastjson.Value) bool {
	for key, condition := range filters {
		o := v.Get(key)

		if o != nil && !valueEqual(o, condition) {
			return false
		}
	}

	return true
}

func valueEqual(v *fastjson.Value, filter string) bool {
	switch v.Type() {
	case fastjson.TypeArray, fastjson.TypeNumber, fastjson.TypeObject:
		return string(v.MarshalTo(nil)) == filter
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return string(b) == filter
	case fastjson.TypeTrue, fastjson.TypeFalse:
		b, err := v.Bool()
		if err != nil {
			return false
		}
		return strconv.FormatBool(b) == filter
	default:
		return false
	}
}
