package utils

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	instance *Logger
	once     sync.Once
)

// Logger wraps a zap logger behind the small API the server uses.
type Logger struct {
	sugar *zap.SugaredLogger
}

// getDefaultLogFilePath returns the default log file path
func getDefaultLogFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}
	logDir := filepath.Join(homeDir, ".geomys")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}
	return filepath.Join(logDir, "geomys.log")
}

// NewLogger creates the logger instance (singleton). Messages go to stdout and
// to logFilePath; debug messages reach stdout only in debug mode.
func NewLogger(logFilePath string, debugMode bool) *Logger {
	once.Do(func() {
		if logFilePath == "" {
			logFilePath = getDefaultLogFilePath()
		}

		file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}

		instance = newLogger(zapcore.AddSync(file), zapcore.Lock(os.Stdout), debugMode)
	})
	return instance
}

func newLogger(file, console zapcore.WriteSyncer, debugMode bool) *Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	consoleLevel := zapcore.InfoLevel
	if debugMode {
		consoleLevel = zapcore.DebugLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, file, zapcore.DebugLevel),
		zapcore.NewCore(encoder, console, consoleLevel),
	)
	return &Logger{sugar: zap.New(core).Sugar()}
}

// GetLogger retrieves the singleton logger instance
func GetLogger() *Logger {
	if instance == nil {
		log.Fatalf("Logger has not been initialized. Call NewLogger() first.")
	}
	return instance
}

// Logging methods
func (l *Logger) Info(message string) {
	l.sugar.Info(message)
}

func (l *Logger) Warn(message string) {
	l.sugar.Warn(message)
}

func (l *Logger) Error(message string) {
	l.sugar.Error(message)
}

func (l *Logger) Debug(message string) {
	l.sugar.Debug(message)
}

// Infow logs a message with structured key/value context.
func (l *Logger) Infow(message string, keysAndValues ...interface{}) {
	l.sugar.Infow(message, keysAndValues...)
}

// Debugw logs a debug message with structured key/value context.
func (l *Logger) Debugw(message string, keysAndValues ...interface{}) {
	l.sugar.Debugw(message, keysAndValues...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
