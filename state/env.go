// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jaiprakash274/dioxus-style/config"
	"github.com/jaiprakash274/dioxus-style/registry"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Log *zap.Logger

	// used by scope subcommand
	Overwrite bool
	Styles    *registry.Registry

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		Styles: registry.New(),
		start:  time.Now(),
	}
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
