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
	"bytes"
	"io"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/valyala/fastjson"
)

const (
	colorBold = iota + 1
	colorFaint
)

const (
	colorRed = iota + 31
	colorGreen
	colorYellow
)

var (
	consoleParserPool fastjson.ParserPool

	consoleBufPool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, 100))
		},
	}

	consoleDefaultTimeFormat = time.Kitchen
)

// ConsoleWriter renders the JSON events emitted by module loggers in a
// colorized, human-friendly format. Events from modules that were not
// explicitly filtered for are dropped.
type ConsoleWriter struct {
	// Out is the output destination.
	Out io.Writer

	// NoColor disables the colorized output.
	NoColor bool

	// TimeFormat specifies the format for timestamps in output.
	TimeFormat string

	FilteredModules map[string]struct{}
}

func FilterFor(modules ...string) func(w *ConsoleWriter) {
	return func(w *ConsoleWriter) {
		for _, module := range modules {
			w.FilteredModules[module] = struct{}{}
		}
	}
}

// NewConsoleWriter creates and initializes a new ConsoleWriter.
func NewConsoleWriter(writer io.Writer, options ...func(w *ConsoleWriter)) ConsoleWriter {
	if writer == nil {
		writer = os.Stdout
	}

	w := ConsoleWriter{
		Out:             writer,
		TimeFormat:      consoleDefaultTimeFormat,
		FilteredModules: make(map[string]struct{}),
	}

	for _, opt := range options {
		opt(&w)
	}

	return w
}

// Write renders a single JSON event and appends it to w.Out.
func (w ConsoleWriter) Write(p []byte) (n int, err error) {
	parser := consoleParserPool.Get()
	defer consoleParserPool.Put(parser)

	v, err := parser.ParseBytes(p)
	if err != nil {
		return n, errors.Wrap(err, "cannot decode event")
	}

	if module := v.GetStringBytes(KeyModule); module != nil {
		if _, filtered := w.FilteredModules[string(module)]; !filtered {
			return len(p), nil
		}
	}

	buf := consoleBufPool.Get().(*bytes.Buffer)
	defer consoleBufPool.Put(buf)

	w.writeTimestamp(buf, v)
	w.writeLevel(buf, v)

	if msg := v.GetStringBytes(zerolog.MessageFieldName); len(msg) > 0 {
		buf.Write(msg)
	}

	w.writeFields(buf, v)

	_ = buf.WriteByte('\n')
	_, _ = buf.WriteTo(w.Out)

	return len(p), nil
}

func (w ConsoleWriter) writeTimestamp(buf *bytes.Buffer, v *fastjson.Value) {
	raw := v.GetStringBytes(zerolog.TimestampFieldName)
	if raw == nil {
		return
	}

	format := w.TimeFormat
	if format == "" {
		format = consoleDefaultTimeFormat
	}

	t := string(raw)
	if ts, err := time.Parse(time.RFC3339, t); err == nil {
		t = ts.Format(format)
	}

	buf.WriteString(colorize(t, colorFaint, w.NoColor))
	buf.WriteByte(' ')
}

func (w ConsoleWriter) writeLevel(buf *bytes.Buffer, v *fastjson.Value) {
	level := string(v.GetStringBytes(zerolog.LevelFieldName))
	if level == "" {
		return
	}

	var l string

	switch level {
	case "debug":
		l = colorize("DBG", colorYellow, w.NoColor)
	case "info":
		l = colorize("INF", colorGreen, w.NoColor)
	case "warn":
		l = colorize("WRN", colorRed, w.NoColor)
	case "error":
		l = colorize(colorize("ERR", colorRed, w.NoColor), colorBold, w.NoColor)
	case "fatal":
		l = colorize(colorize("FTL", colorRed, w.NoColor), colorBold, w.NoColor)
	case "panic":
		l = colorize(colorize("PNC", colorRed, w.NoColor), colorBold, w.NoColor)
	default:
		l = colorize("???", colorBold, w.NoColor)
	}

	buf.WriteString(l)
	buf.WriteByte(' ')
}

func (w ConsoleWriter) writeFields(buf *bytes.Buffer, v *fastjson.Value) {
	obj := v.GetObject()
	if obj == nil {
		return
	}

	fields := make([]string, 0, 8)

	obj.Visit(func(key []byte, _ *fastjson.Value) {
		switch string(key) {
		case zerolog.TimestampFieldName, zerolog.LevelFieldName,
			zerolog.MessageFieldName, zerolog.CallerFieldName, KeyModule:
			return
		}

		fields = append(fields, string(key))
	})

	if len(fields) == 0 {
		return
	}

	sort.Strings(fields)

	// Surface the error field first.
	for i, field := range fields {
		if field == zerolog.ErrorFieldName {
			copy(fields[1:i+1], fields[:i])
			fields[0] = field

			break
		}
	}

	buf.WriteString("\n\t")

	for i, field := range fields {
		value := fieldString(v.Get(field))

		if field == zerolog.ErrorFieldName {
			buf.WriteString(colorize(field+": ", colorRed, w.NoColor))
			buf.WriteString(colorize(value, colorRed, w.NoColor))
		} else {
			buf.WriteString(colorize(field+": ", colorFaint, w.NoColor))
			buf.WriteString(value)
		}

		if i < len(fields)-1 { // Skip space for last field
			buf.WriteByte(' ')
		}
	}
}

func fieldString(v *fastjson.Value) string {
	if v == nil {
		return ""
	}

	if v.Type() == fastjson.TypeString {
		s := string(v.GetStringBytes())
		if needsQuote(s) {
			return strconv.Quote(s)
		}

		return s
	}

	return v.String()
}

// needsQuote returns true when the string s should be quoted in output.
func needsQuote(s string) bool {
	for i := range s {
		if s[i] < 0x20 || s[i] > 0x7e || s[i] == ' ' || s[i] == '\\' || s[i] == '"' {
			return true
		}
	}

	return false
}

// colorize wraps s in the ANSI code c, unless disabled is true.
func colorize(s string, c int, disabled bool) string {
	if disabled {
		return s
	}

	return "\x1b[" + strconv.Itoa(c) + "m" + s + "\x1b[0m"
}
