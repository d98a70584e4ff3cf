package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/corebc/go-corebc/logging/colors"
	"github.com/rs/zerolog"
)

// GlobalLogger describes a Logger that is disabled by default. Applications embedding this library
// should create their own root logger and hand package-level sub-loggers out from it; the global
// instance exists so that library internals never hold a nil logger.
var GlobalLogger = NewLogger(zerolog.Disabled, false)

// Logger describes a custom logging object that can log events to any arbitrary channel and handles
// specialized, colorized output to console.
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// multiLogger describes a logger that will be used to output structured logs to any arbitrary
	// channel(s).
	multiLogger zerolog.Logger

	// consoleLogger describes a logger that will be used to output unstructured output to console.
	// A separate logger is maintained for console so that custom coloring can be applied to it.
	consoleLogger zerolog.Logger

	// writers describes the list of io.Writer objects where structured log output will go.
	writers []io.Writer
}

// StructuredLogInfo describes a key-value mapping that can be used to log structured data.
type StructuredLogInfo map[string]any

// init sets up global zerolog parameters: stack trace marshaling for wrapped errors and UNIX
// timestamps for structured output.
func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// NewLogger will create a new Logger object with a specific log level. The Logger can output to
// console, if enabled, and to any number of arbitrary io.Writer channels.
func NewLogger(level zerolog.Level, consoleEnabled bool, writers ...io.Writer) *Logger {
	// The two base loggers start out disabled so that we never hold a nil logger downstream.
	baseMultiLogger := zerolog.New(os.Stdout).Level(zerolog.Disabled)
	baseConsoleLogger := zerolog.New(os.Stdout).Level(zerolog.Disabled)

	if len(writers) > 0 {
		baseMultiLogger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	}
	if consoleEnabled {
		consoleWriter := setupDefaultFormatting(zerolog.ConsoleWriter{Out: os.Stdout}, level)
		baseConsoleLogger = zerolog.New(consoleWriter).Level(level)
	}

	return &Logger{
		level:         level,
		multiLogger:   baseMultiLogger,
		consoleLogger: baseConsoleLogger,
		writers:       writers,
	}
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair. Each
// package is expected to have its own sub-logger so that parsing of logs is "grep-able" by key.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	return &Logger{
		level:         l.level,
		multiLogger:   l.multiLogger.With().Str(key, value).Logger(),
		consoleLogger: l.consoleLogger.With().Str(key, value).Logger(),
		writers:       l.writers,
	}
}

// AddWriter will add a writer to the list of channels where structured log output will be sent.
func (l *Logger) AddWriter(writer io.Writer) {
	for _, w := range l.writers {
		if writer == w {
			return
		}
	}
	l.writers = append(l.writers, writer)
	l.multiLogger = zerolog.New(zerolog.MultiLevelWriter(l.writers...)).Level(l.level).With().Timestamp().Logger()
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.multiLogger = l.multiLogger.Level(level)
	l.consoleLogger = l.consoleLogger.Level(level)
}

// Trace is a wrapper function that will log a trace event
func (l *Logger) Trace(args ...any) {
	l.emit(l.consoleLogger.Trace(), l.multiLogger.Trace(), args...)
}

// Debug is a wrapper function that will log a debug event
func (l *Logger) Debug(args ...any) {
	l.emit(l.consoleLogger.Debug(), l.multiLogger.Debug(), args...)
}

// Info is a wrapper function that will log an info event
func (l *Logger) Info(args ...any) {
	l.emit(l.consoleLogger.Info(), l.multiLogger.Info(), args...)
}

// Warn is a wrapper function that will log a warning event
func (l *Logger) Warn(args ...any) {
	l.emit(l.consoleLogger.Warn(), l.multiLogger.Warn(), args...)
}

// Error is a wrapper function that will log an error event
func (l *Logger) Error(args ...any) {
	l.emit(l.consoleLogger.Error(), l.multiLogger.Error(), args...)
}

// Fatal is a wrapper function that will log a fatal event and exit
func (l *Logger) Fatal(args ...any) {
	l.emit(l.consoleLogger.Fatal(), l.multiLogger.Fatal(), args...)
}

// Panic is a wrapper function that will log a panic event and panic
func (l *Logger) Panic(args ...any) {
	l.emit(l.consoleLogger.Panic(), l.multiLogger.Panic(), args...)
}

// emit builds the console and structured messages from the variadic argument list and sends them
// out on both log events. Arguments may include colors.ColorFunc values to switch the console
// color context, at most one error, and at most one StructuredLogInfo.
func (l *Logger) emit(consoleLog *zerolog.Event, multiLog *zerolog.Event, args ...any) {
	consoleMsg, multiMsg, err, info := buildMsgs(args...)

	// Chain the error. Err tolerates a nil error, so no guard is necessary here.
	consoleLog.Err(err)
	multiLog.Err(err)

	if info != nil {
		consoleLog.Any("info", info)
		multiLog.Any("info", info)
	}

	multiLog.Msg(multiMsg)
	consoleLog.Msg(consoleMsg)
}

// buildMsgs takes a variadic list of arguments of any type and returns two strings and, optionally,
// an error and a StructuredLogInfo object. The first string is colorized for console use; the
// second is plain for file/structured logging.
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	if len(args) == 0 {
		return "", "", nil, nil
	}

	colorCtx := colors.Reset
	consoleOutput := make([]string, 0, len(args))
	fileOutput := make([]string, 0, len(args))
	var info StructuredLogInfo
	var err error

	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			// A color function switches the current console color context.
			colorCtx = t
		case StructuredLogInfo:
			// Only one structured log info can be provided per log message.
			info = t
		case error:
			// Only one error can be provided per log message.
			err = t
		default:
			consoleOutput = append(consoleOutput, colorCtx(t))
			fileOutput = append(fileOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(consoleOutput, ""), strings.Join(fileOutput, ""), err, info
}

// setupDefaultFormatting updates the console logger's formatting to the library standard: no
// timestamps on console and per-level colored markers.
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	writer.FormatTimestamp = func(i interface{}) string {
		return ""
	}

	writer.FormatLevel = func(i any) string {
		parsed, err := zerolog.ParseLevel(i.(string))
		if err != nil {
			return i.(string)
		}

		switch parsed {
		case zerolog.TraceLevel:
			return colors.CyanBold(zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return colors.BlueBold(zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return colors.GreenBold(colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			return colors.YellowBold(zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return colors.RedBold(zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return colors.RedBold(zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return colors.RedBold(zerolog.LevelPanicValue)
		default:
			return i.(string)
		}
	}

	// Above debug level the `module` key is noise on console; structured writers keep it.
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module"}
	}

	return writer
}
