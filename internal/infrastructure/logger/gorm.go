package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQL longer than this is cut in log entries; bulk order inserts get long
const maxLoggedSQL = 2048

// GormConfig tunes GormLogger
type GormConfig struct {
	SlowThreshold time.Duration // 0 disables slow query warnings
	LogNotFound   bool          // log gorm.ErrRecordNotFound as an error
}

// DefaultGormConfig warns on queries slower than 200ms
func DefaultGormConfig() GormConfig {
	return GormConfig{SlowThreshold: 200 * time.Millisecond}
}

// GormLogger sends GORM output through zap with the request, user and trace
// fields of the query context.
type GormLogger struct {
	logger *zap.Logger
	level  gormlogger.LogLevel
	cfg    GormConfig
}

// NewGormLogger creates a GORM logger backed by zap
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel) *GormLogger {
	return NewGormLoggerWithConfig(zapLogger, level, DefaultGormConfig())
}

// NewGormLoggerWithConfig creates a GORM logger with explicit thresholds
func NewGormLoggerWithConfig(zapLogger *zap.Logger, level gormlogger.LogLevel, cfg GormConfig) *GormLogger {
	return &GormLogger{
		logger: zapLogger.Named("gorm"),
		level:  level,
		cfg:    cfg,
	}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.forContext(ctx).Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.forContext(ctx).Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.forContext(ctx).Sugar().Errorf(msg, data...)
	}
}

// Trace logs one statement. Failures win over slowness, which wins over
// plain statements; plain statements are only logged at gormlogger.Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	slow := l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold

	switch {
	case err != nil && l.level >= gormlogger.Error:
		if errors.Is(err, gorm.ErrRecordNotFound) && !l.cfg.LogNotFound {
			return
		}
		fields := append(l.statementFields(elapsed, fc), zap.Error(err))
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// unique payment intent and email races are handled by callers
			l.forContext(ctx).Warn("Unique constraint violated", fields...)
			return
		}
		l.forContext(ctx).Error("Query failed", fields...)

	case slow && l.level >= gormlogger.Warn:
		fields := append(l.statementFields(elapsed, fc), zap.Duration("threshold", l.cfg.SlowThreshold))
		l.forContext(ctx).Warn("Slow query", fields...)

	case l.level >= gormlogger.Info:
		l.forContext(ctx).Debug("Query", l.statementFields(elapsed, fc)...)
	}
}

func (l *GormLogger) statementFields(elapsed time.Duration, fc func() (string, int64)) []zap.Field {
	sql, rows := fc()
	if len(sql) > maxLoggedSQL {
		sql = sql[:maxLoggedSQL] + "..."
	}
	return []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
}

func (l *GormLogger) forContext(ctx context.Context) *zap.Logger {
	return WithLogger(ctx, l.logger).enriched()
}

// MapGormLogLevel maps the application log level to a GORM log level.
// SQL statements are only traced at debug.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
