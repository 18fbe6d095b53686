package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	log zerolog.Logger

	DurationAsString  = true
	DurationFieldName = "dur"
	ErrorsFieldName   = "errors"
)

func Log() *zerolog.Logger {
	return &log
}

func init() {
	setCallerFormatter()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	SetConsoleWriter(os.Stderr)
}

func setCallerFormatter() {
	_, file, _, _ := runtime.Caller(0)
	prefix := path.Dir(path.Dir(file))
	if len(prefix) > 0 && prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}

	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		if index := strings.Index(file, prefix); index > -1 {
			file = file[index+len(prefix):]
		}
		return fmt.Sprintf("%s:%d", file, line)
	}
}

func SetWriter(w io.Writer) {
	log = zerolog.New(w)
}

// SetLevel sets the global level from its name ("debug", "info", ...).
func SetLevel(level string) error {
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(l)
	return nil
}

// Configure picks the writer by format ("console" or "json") and the level.
func Configure(w io.Writer, format, level string) error {
	switch format {
	case "", "console":
		SetConsoleWriter(w)
	case "json":
		SetJsonWriter(w)
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	if level == "" {
		return nil
	}
	return SetLevel(level)
}

// doLog treats args as an optional leading error followed by key/value
// pairs. A trailing key without a value becomes the message.
func doLog(skip int, event *zerolog.Event, args []interface{}) {
	if event == nil {
		return
	}
	event.Timestamp().Caller(skip)

	if len(args) > 0 {
		if err, ok := args[0].(error); ok {
			event.Err(err)
			args = args[1:]
		}
	}

	for i := 0; i < len(args); i += 2 {
		k, ok := args[i].(string)
		if !ok {
			appendLoose(event, args[i])
			i--
			continue
		}
		if i+1 == len(args) {
			event.Msg(k)
			return
		}
		appendField(event, k, args[i+1])
	}
	event.Msg("")
}

func appendField(event *zerolog.Event, k string, value interface{}) {
	switch v := value.(type) {
	case string:
		event.Str(k, v)
	case []string:
		event.Strs(k, v)
	case int:
		event.Int(k, v)
	case int64:
		event.Int64(k, v)
	case uint64:
		event.Uint64(k, v)
	case float64:
		event.Float64(k, v)
	case bool:
		event.Bool(k, v)
	case error:
		event.AnErr(k, v)
	case time.Time:
		event.Time(k, v)
	case time.Duration:
		if DurationAsString {
			event.Str(k, v.String())
		} else {
			event.Dur(k, v)
		}
	case fmt.Stringer:
		event.Stringer(k, v)
	default:
		event.Interface(k, v)
	}
}

func appendLoose(event *zerolog.Event, value interface{}) {
	switch v := value.(type) {
	case nil:
	case error:
		event.Err(v)
	case []error:
		event.Errs(ErrorsFieldName, v)
	case time.Duration:
		appendField(event, DurationFieldName, v)
	}
}

// Debug logs a message at level Debug on the standard logger.
func Debug(args ...interface{}) {
	doLog(2, log.Debug(), args)
}

// Info logs a message at level Info on the standard logger.
func Info(args ...interface{}) {
	doLog(2, log.Info(), args)
}

func Warn(args ...interface{}) {
	doLog(2, log.Warn(), args)
}

// WarnErr logs err at level Warn.
func WarnErr(err error, args ...interface{}) {
	doLog(2, log.Warn().Err(err), args)
}

func Error(err error, args ...interface{}) {
	doLog(2, log.Error().Err(err), args)
}

// Fatal logs at level Fatal then exits with status 1.
func Fatal(err error, args ...interface{}) {
	doLog(2, log.Fatal().Err(err), args)
}
