package logger

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Logger writes structured lines tagged with the service name. Fields are
// passed as maps so call sites read the same at every level.
type Logger struct {
	zl      zerolog.Logger
	service string
}

// New builds a logger writing to the output named in cfg.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(cfg, serviceName, cfg.writer())
}

// NewWithWriter builds a logger writing to w. An unknown level logs at info.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	base := zerolog.New(w)
	if f := strings.ToLower(cfg.Format); f == FormatConsole || f == FormatPretty {
		base = zerolog.New(consoleWriter(w, cfg.NoColor))
	}

	zc := base.Level(level).With()
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	if serviceName != "" {
		zc = zc.Str(FieldService, serviceName)
	}
	return &Logger{zl: zc.Logger(), service: serviceName}
}

// NewDefault is the console logger used before configuration is loaded.
func NewDefault(serviceName string) *Logger {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return New(cfg, serviceName)
}

// NewNop discards everything. Tests use it.
func NewNop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) derive(zc zerolog.Context) *Logger {
	return &Logger{zl: zc.Logger(), service: l.service}
}

// WithContext adds the request id and the authenticated user id found in
// ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zc := l.zl.With()
	if id := RequestIDFromContext(ctx); id != "" {
		zc = zc.Str(FieldRequestID, id)
	}
	if id := UserIDFromContext(ctx); id != "" {
		zc = zc.Str(FieldUserID, id)
	}
	return l.derive(zc)
}

// WithComponent tags lines with the emitting component, e.g. "user" or
// "mongodb".
func (l *Logger) WithComponent(name string) *Logger {
	return l.derive(l.zl.With().Str(FieldComponent, name))
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	write(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	write(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	write(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	write(l.zl.Error(), msg, fields)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, fields ...map[string]interface{}) {
	write(l.zl.Fatal(), msg, fields)
}

// write adds fields to e and sends it. Errors are written as their message.
func write(e *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, m := range fields {
		for k, v := range m {
			if err, ok := v.(error); ok {
				e = e.AnErr(k, err)
			} else {
				e = e.Interface(k, v)
			}
		}
	}
	e.Msg(msg)
}

var levelTags = map[string][2]string{
	"debug": {"[DBG]", "\033[36m[DBG]\033[0m"},
	"info":  {"[INF]", "\033[32m[INF]\033[0m"},
	"warn":  {"[WRN]", "\033[33m[WRN]\033[0m"},
	"error": {"[ERR]", "\033[31m[ERR]\033[0m"},
	"fatal": {"[FTL]", "\033[35m[FTL]\033[0m"},
}

func consoleWriter(w io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			lvl := fmt.Sprint(i)
			tags, ok := levelTags[lvl]
			switch {
			case !ok:
				return "[" + strings.ToUpper(lvl) + "]"
			case noColor:
				return tags[0]
			default:
				return tags[1]
			}
		},
		FormatFieldName: func(i interface{}) string { return fmt.Sprint(i) + ":" },
	}
}
