package logsvc

import (
	"fmt"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/account"
)

// RollbarLogger writes entries through zap and reports them to Rollbar when enabled.
type RollbarLogger struct {
	zl      *zap.Logger
	enabled bool
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(zl *zap.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{zl: zl}
}

// Enable turns Rollbar reporting on or off. Entries are always written through zap.
func (l *RollbarLogger) Enable(enabled bool) {
	l.enabled = enabled && rollbar.Token() != ""
	rollbar.SetEnabled(l.enabled)
}

// Sync flushes buffered zap entries and waits for pending Rollbar reports.
func (l *RollbarLogger) Sync() {
	_ = l.zl.Sync()
	if l.enabled {
		rollbar.Wait()
	}
}

// expected fmt: msg | error, map[string]interface{}, account.Account, anything else
func (l *RollbarLogger) prepare(msg string, args []interface{}) ([]interface{}, []zap.Field) {
	var acctSet bool
	rbArgs := make([]interface{}, 0, len(args)+1)
	rbArgs = append(rbArgs, msg)
	fields := make([]zap.Field, 0, len(args))

	for i, arg := range args {
		switch v := arg.(type) {
		case account.Account:
			// only set one Account
			if !acctSet {
				if l.enabled {
					rollbar.SetPerson(v.ID, v.Name, v.Email)
				}
				fields = append(fields, zap.String("accountId", v.ID), zap.String("role", string(v.Role)))
				acctSet = true
			}
			continue
		case error:
			fields = append(fields, zap.NamedError(fmt.Sprintf("error%d", i), v))
		case map[string]interface{}:
			for k, val := range v {
				fields = append(fields, zap.Any(k, val))
			}
		default:
			fields = append(fields, zap.Any(fmt.Sprintf("arg%d", i), v))
		}
		rbArgs = append(rbArgs, arg)
	}
	if !acctSet && l.enabled {
		rollbar.ClearPerson()
	}
	return rbArgs, fields
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	if l.enabled {
		rollbar.Debug(rbArgs...)
	}
	l.zl.Debug(msg, fields...)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	if l.enabled {
		rollbar.Info(rbArgs...)
	}
	l.zl.Info(msg, fields...)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	if l.enabled {
		rollbar.Warning(rbArgs...)
	}
	l.zl.Warn(msg, fields...)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	if l.enabled {
		rollbar.Error(rbArgs...)
	}
	l.zl.Error(msg, fields...)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	if l.enabled {
		rollbar.Critical(rbArgs...)
		rollbar.Wait()
	}
	l.zl.Fatal(msg, fields...)
}
