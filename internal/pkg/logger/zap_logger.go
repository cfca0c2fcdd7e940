package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ILogger is the module-tagged logger every service and adapter receives
type ILogger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
	Sync() error
}

type ZapLogger struct {
	logger   *zap.Logger
	filePath string
}

var _ ILogger = &ZapLogger{}

// rotation limits shared by every file sink
const (
	rotateMaxSizeMB  = 10
	rotateMaxBackups = 5
	rotateMaxAgeDays = 30
)

func fileSink(path string) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotateMaxSizeMB,
		MaxBackups: rotateMaxBackups,
		MaxAge:     rotateMaxAgeDays,
		Compress:   true,
	})
}

func jsonLines() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.LevelKey = "level"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func wrap(core zapcore.Core, path string) *ZapLogger {
	// skip the wrapper frame so callers show up in "caller"
	return &ZapLogger{
		logger:   zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)),
		filePath: path,
	}
}

// NewZapLogger writes JSON lines to a rotated file and mirrors them to stdout.
// Outside production stdout gets the colorless console encoding instead.
func NewZapLogger(logFilePath string, isProd bool) *ZapLogger {
	stdout := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	if isProd {
		stdout = jsonLines()
	}

	return wrap(zapcore.NewTee(
		zapcore.NewCore(jsonLines(), fileSink(logFilePath), zap.InfoLevel),
		zapcore.NewCore(stdout, zapcore.Lock(os.Stdout), zap.DebugLevel),
	), logFilePath)
}

// NewIsolatedLogger only writes to its own file.
// The escalation trace and the audit trail go through one of these.
func NewIsolatedLogger(logFilePath string) *ZapLogger {
	return wrap(zapcore.NewCore(jsonLines(), fileSink(logFilePath), zap.DebugLevel), logFilePath)
}

func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

func (l *ZapLogger) write(level zapcore.Level, module, message string, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	fields := []zap.Field{zap.String("module", module), zap.Any("details", details)}
	if err, ok := details["error"]; ok && level >= zapcore.ErrorLevel {
		fields = append(fields, zap.Any("error_ref", err))
	}
	if ce := l.logger.Check(level, message); ce != nil {
		ce.Write(fields...)
	}
}

func (l *ZapLogger) Debug(module, message string, details map[string]interface{}) {
	l.write(zapcore.DebugLevel, module, message, details)
}

func (l *ZapLogger) Info(module, message string, details map[string]interface{}) {
	l.write(zapcore.InfoLevel, module, message, details)
}

func (l *ZapLogger) Warn(module, message string, details map[string]interface{}) {
	l.write(zapcore.WarnLevel, module, message, details)
}

func (l *ZapLogger) Error(module, message string, details map[string]interface{}) {
	l.write(zapcore.ErrorLevel, module, message, details)
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

// FilePath is "" for the nop logger
func (l *ZapLogger) FilePath() string {
	return l.filePath
}
