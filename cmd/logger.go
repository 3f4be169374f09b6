package cmd

import (
	"context"

	"github.com/conneroisu/structcli/internal/logging"
)

// cliLogger forwards to the logger the root command configures once flags
// are parsed. Bindings are created at init time, before that happens.
type cliLogger struct {
	component string
	fields    []interface{}
}

func (l cliLogger) current() logging.Logger {
	current := logger
	if l.component != "" {
		current = current.WithComponent(l.component)
	}
	if len(l.fields) > 0 {
		current = current.With(l.fields...)
	}
	return current
}

func (l cliLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.current().Debug(ctx, msg, fields...)
}

func (l cliLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.current().Info(ctx, msg, fields...)
}

func (l cliLogger) Warn(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.current().Warn(ctx, err, msg, fields...)
}

func (l cliLogger) Error(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.current().Error(ctx, err, msg, fields...)
}

func (l cliLogger) With(fields ...interface{}) logging.Logger {
	merged := make([]interface{}, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return cliLogger{component: l.component, fields: merged}
}

func (l cliLogger) WithComponent(component string) logging.Logger {
	return cliLogger{component: component, fields: l.fields}
}
