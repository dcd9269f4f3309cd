// Package scope implements the scope subcommand - it reads stylesheet
// sources, rewrites their selectors under generated (or forced) scope tokens
// and emits the combined result.
package scope

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jaiprakash274/dioxus-style/css"
	"github.com/jaiprakash274/dioxus-style/state"
	"github.com/jaiprakash274/dioxus-style/token"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("scope")

	files := cmd.Args().Slice()
	if len(files) == 0 {
		return errors.New("no input files have been specified")
	}

	forced := cmd.String("scope")
	if len(forced) > 0 && len(files) > 1 {
		// a single forced token over several files would merge them under one
		// registry entry, losing all but the first
		return fmt.Errorf("--scope can only be used with a single input file, got %d", len(files))
	}

	attribute := env.Cfg.Scoping.Attribute
	if s := cmd.String("attribute"); len(s) > 0 {
		attribute = s
	}
	minify := cmd.Bool("minify") || env.Cfg.Scoping.Minify
	env.Overwrite = cmd.Bool("overwrite")

	log.Info("Processing starting", zap.Int("files", len(files)), zap.String("attribute", attribute))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	scoper := css.NewScoper(log, attribute)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if er := processFile(ctx, scoper, path, forced, log); er != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(er))
			err = multierr.Append(err, fmt.Errorf("unable to process %s: %w", path, er))
		}
	}
	if err != nil {
		return err
	}

	out := env.Styles.StyleBlock()
	if minify {
		out = css.Minify(out)
	}
	return writeOutput(env, cmd.String("output"), []byte(out), log)
}

// processFile scopes a single stylesheet and records the result in the shared
// style registry. When "forced" is empty the scope token is derived from the
// file path and content, so repeated runs over the same input are stable.
func processFile(ctx context.Context, scoper *css.Scoper, path, forced string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	source := string(data)

	scope := forced
	if len(scope) == 0 {
		scope = token.FromFile(path, source)
	}

	var classes []string
	_, err = env.Styles.GetOrInsert(scope, func() (string, error) {
		scoped, err := scoper.Scope(source, scope)
		if err != nil {
			return "", err
		}
		classes = scoped.ClassNames
		return scoped.CSS, nil
	})
	if err != nil {
		return err
	}

	log.Info("Stylesheet scoped", zap.String("file", path), zap.String("scope", scope), zap.Strings("classes", classes))
	return nil
}

// writeOutput sends combined styles to the requested destination, STDOUT when
// none was given.
func writeOutput(env *state.LocalEnv, fname string, data []byte, log *zap.Logger) error {
	if len(fname) == 0 {
		_, err := os.Stdout.Write(data)
		return err
	}

	if _, err := os.Stat(fname); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", fname)
		}
		log.Warn("Overwriting existing file", zap.String("file", fname))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	log.Info("Writing combined styles", zap.String("file", fname), zap.Int("size", len(data)))
	return os.WriteFile(fname, data, 0644)
}
