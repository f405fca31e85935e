package logging

import "github.com/rs/zerolog"

// zerologLogger adapts a zerolog.Logger to the Logger interface. This is
// the default backing used by config.Config when no Logger option is
// supplied explicitly.
type zerologLogger struct {
	z     zerolog.Logger
	level LogLevel
}

// NewZerolog wraps z, filtering calls below level before they reach it.
func NewZerolog(z zerolog.Logger, level LogLevel) Logger {
	return &zerologLogger{z: z, level: level}
}

func (l *zerologLogger) Level() LogLevel { return l.level }

func (l *zerologLogger) Log(level LogLevel, msg string, keyvals ...any) {
	if level > l.level {
		return
	}
	var ev *zerolog.Event
	switch level {
	case LogLevelError:
		ev = l.z.Error()
	case LogLevelWarn:
		ev = l.z.Warn()
	case LogLevelInfo:
		ev = l.z.Info()
	case LogLevelDebug:
		ev = l.z.Debug()
	default:
		return
	}
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, keyvals[i+1])
	}
	ev.Msg(msg)
}
