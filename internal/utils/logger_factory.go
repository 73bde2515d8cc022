package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	debugLevelNameConstant           = "debug"
	infoLevelNameConstant            = "info"
	warnLevelNameConstant            = "warn"
	errorLevelNameConstant           = "error"
	structuredFormatNameConstant     = "structured"
	consoleFormatNameConstant        = "console"
	jsonEncodingNameConstant         = "json"
	consoleEncodingNameConstant      = "console"
	unknownLogLevelTemplateConstant  = "unsupported log level: %s"
	unknownLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel names a logging granularity accepted by the factory.
type LogLevel string

// Log levels accepted by configuration and flags.
const (
	LogLevelDebug LogLevel = LogLevel(debugLevelNameConstant)
	LogLevelInfo  LogLevel = LogLevel(infoLevelNameConstant)
	LogLevelWarn  LogLevel = LogLevel(warnLevelNameConstant)
	LogLevelError LogLevel = LogLevel(errorLevelNameConstant)
)

// LogFormat names a logger output encoding accepted by the factory.
type LogFormat string

// Log formats accepted by configuration and flags.
const (
	LogFormatStructured LogFormat = LogFormat(structuredFormatNameConstant)
	LogFormatConsole    LogFormat = LogFormat(consoleFormatNameConstant)
)

// LoggerFactory builds zap loggers from a configured level and format.
type LoggerFactory struct{}

// NewLoggerFactory constructs a LoggerFactory instance.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	resolvedLevel, levelError := resolveZapLevel(requestedLogLevel)
	if levelError != nil {
		return nil, levelError
	}

	resolvedEncoding, encodingError := resolveZapEncoding(requestedLogFormat)
	if encodingError != nil {
		return nil, encodingError
	}

	loggerConfiguration := zap.NewProductionConfig()
	loggerConfiguration.Level = zap.NewAtomicLevelAt(resolvedLevel)
	loggerConfiguration.Encoding = resolvedEncoding

	return loggerConfiguration.Build()
}

func resolveZapLevel(requestedLogLevel LogLevel) (zapcore.Level, error) {
	switch requestedLogLevel {
	case LogLevelDebug:
		return zapcore.DebugLevel, nil
	case LogLevelInfo:
		return zapcore.InfoLevel, nil
	case LogLevelWarn:
		return zapcore.WarnLevel, nil
	case LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InvalidLevel, fmt.Errorf(unknownLogLevelTemplateConstant, requestedLogLevel)
	}
}

func resolveZapEncoding(requestedLogFormat LogFormat) (string, error) {
	switch requestedLogFormat {
	case LogFormatStructured:
		return jsonEncodingNameConstant, nil
	case LogFormatConsole:
		return consoleEncodingNameConstant, nil
	default:
		return "", fmt.Errorf(unknownLogFormatTemplateConstant, requestedLogFormat)
	}
}
