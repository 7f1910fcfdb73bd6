package log

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fastjson"
)

func init() { // nolint:gochecknoinits
	zerolog.MessageFieldName = "message"
	zerolog.LevelFieldName = "level"
	zerolog.ErrorFieldName = "error"

	setupChildLoggers()
}

// MarshalableEvent is a record that renders itself into a zerolog
// event. The index records and api responses implement it so the same
// fields show up in the logs and on the wire.
type MarshalableEvent interface {
	// MarshalEvent sends the event as well.
	MarshalEvent(ev *zerolog.Event)
}

// UnmarshalableValue is a record that reads itself back out of a
// parsed JSON value.
type UnmarshalableValue interface {
	UnmarshalValue(v *fastjson.Value) error
}

func EventTo(ev *zerolog.Event, loggable MarshalableEvent) {
	loggable.MarshalEvent(ev)
}

func Info(logger *zerolog.Logger, loggable MarshalableEvent) {
	EventTo(logger.Info(), loggable)
}
