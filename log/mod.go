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

package log

import (
	"io"

	"github.com/rs/zerolog"
)

var (
	output = &multiWriter{
		writers: make(map[string]io.Writer),
	}
	logger = zerolog.New(output).With().Timestamp().Logger()

	node    zerolog.Logger
	store   zerolog.Logger
	index   zerolog.Logger
	api     zerolog.Logger
	metrics zerolog.Logger
)

const (
	LoggerSui       = "sui"
	LoggerWebsocket = "ws"

	KeyModule = "mod"
	KeyEvent  = "event"

	ModuleNode    = "node"
	ModuleStore   = "store"
	ModuleIndex   = "index"
	ModuleAPI     = "api"
	ModuleMetrics = "metrics"
)

func setupChildLoggers() {
	node = logger.With().Str(KeyModule, ModuleNode).Logger()
	store = logger.With().Str(KeyModule, ModuleStore).Logger()
	index = logger.With().Str(KeyModule, ModuleIndex).Logger()
	api = logger.With().Str(KeyModule, ModuleAPI).Logger()
	metrics = logger.With().Str(KeyModule, ModuleMetrics).Logger()
}

func SetLevel(level string) {
	if l, err := zerolog.ParseLevel(level); err == nil {
		node = node.Level(l)
		store = store.Level(l)
		index = index.Level(l)
		api = api.Level(l)
		metrics = metrics.Level(l)
	}
}

func SetWriter(key string, writer io.Writer) {
	output.Set(key, writer)
}

func RemoveWriter(key string) {
	output.Remove(key)
}

func ClearWriters() {
	output.Clear()
}

func Node() zerolog.Logger {
	return node
}

func Store(event string) zerolog.Logger {
	return store.With().Str(KeyEvent, event).Logger()
}

func Index(event string) zerolog.Logger {
	return index.With().Str(KeyEvent, event).Logger()
}

func API(event string) zerolog.Logger {
	return api.With().Str(KeyEvent, event).Logger()
}

func Metrics() zerolog.Logger {
	return metrics
}
