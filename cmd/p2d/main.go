package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/programme-lv/p2d/internal/config"
	"github.com/programme-lv/p2d/internal/convert"
	"github.com/programme-lv/p2d/internal/environment"
	"github.com/programme-lv/p2d/internal/storage"
	"github.com/programme-lv/p2d/internal/xdg"
	"github.com/urfave/cli/v3"
)

const appName = "p2d"

var version = "dev"

func main() {
	if err := environment.Load(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      appName,
		Usage:     "Process Polygon Package to Domjudge Package.",
		Version:   version,
		ArgsUsage: "<problemsetdir>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "set log level (debug, info, warning, error, critical)",
				Sources: cli.EnvVars("P2D_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "werror",
				Aliases: []string{"e"},
				Usage:   "consider warnings as errors",
				Sources: cli.EnvVars("P2D_WERROR"),
			},
			&cli.StringSliceFlag{
				Name:    "config-dir",
				Aliases: []string{"c"},
				Usage:   "additional config directory, later ones take precedence",
				Sources: cli.EnvVars("P2D_CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "directory the archives are written to",
				Sources: cli.EnvVars("P2D_OUTPUT"),
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   1,
				Usage:   "number of problems converted concurrently",
				Sources: cli.EnvVars("P2D_JOBS"),
			},
			&cli.StringFlag{
				Name:    "s3-bucket",
				Usage:   "upload archives to this S3 bucket",
				Sources: cli.EnvVars("P2D_S3_BUCKET"),
			},
			&cli.StringFlag{
				Name:    "s3-prefix",
				Usage:   "key prefix of uploaded archives",
				Sources: cli.EnvVars("P2D_S3_PREFIX"),
			},
			&cli.StringFlag{
				Name:    "aws-region",
				Value:   "eu-central-1",
				Sources: cli.EnvVars("P2D_AWS_REGION", "AWS_REGION"),
			},
			&cli.StringFlag{
				Name:    "sqs-url",
				Usage:   "send problem and run results to this SQS queue",
				Sources: cli.EnvVars("P2D_SQS_URL"),
			},
			&cli.StringFlag{
				Name:    "nats-url",
				Usage:   "stream conversion events to this NATS server",
				Sources: cli.EnvVars("P2D_NATS_URL"),
			},
			&cli.StringFlag{
				Name:    "nats-subject",
				Value:   "p2d.events",
				Sources: cli.EnvVars("P2D_NATS_SUBJECT"),
			},
		},
		Before: setupLogging,
		Action: convertAction,
		Commands: []*cli.Command{
			{
				Name:  "fetch-testlib",
				Usage: "download testlib.h into the user cache",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Value: storage.TestlibURL},
					&cli.BoolFlag{Name: "force", Usage: "replace a cached copy"},
				},
				Action: fetchTestlibAction,
			},
		},
	}
}

func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, err := parseLevel(cmd.String("log-level"))
	if err != nil {
		return ctx, err
	}
	slog.SetDefault(newLogger(os.Stdout, level))
	return ctx, nil
}

func cacheStorage() *storage.Storage {
	return storage.New(xdg.New().AppCacheDir(appName))
}

func convertAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("expected exactly one problem set directory", 1)
	}
	problemsetDir := cmd.Args().First()
	jobs := cmd.Int("jobs")
	if jobs < 1 {
		return cli.Exit("--jobs must be at least 1", 1)
	}

	env, err := loadEnv(problemsetDir, cmd.StringSlice("config-dir"))
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			slog.Error("invalid configuration", "error", err)
		} else {
			slog.Error("failed to load configuration", "error", err)
		}
		return cli.Exit("", 1)
	}
	env.Werror = cmd.Bool("werror")
	env.OutDir = cmd.String("output")
	if err := os.MkdirAll(env.OutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	runUuid := uuid.NewString()
	gath, cleanup, err := buildGatherer(ctx, cmd, runUuid)
	if err != nil {
		return err
	}
	defer cleanup()
	env.Gatherer = gath
	env.Log = slog.Default()

	slog.Debug("starting conversion", "run", runUuid, "problemset", problemsetDir, "jobs", jobs)
	summary, err := convert.NewRunner(env, jobs).Run(ctx, problemsetDir)
	if err != nil {
		slog.Error(err.Error())
		return cli.Exit("", 1)
	}
	if code := summary.ExitCode(); code != 0 {
		return cli.Exit("", code)
	}
	return nil
}

// loadEnv loads the process wide configs from the embedded defaults, the XDG
// config dirs, extraDirs and, for problems, the problem set itself.
func loadEnv(problemsetDir string, extraDirs []string) (*convert.Env, error) {
	dirs := append(xdg.New().AppConfigSearchPath(appName), extraDirs...)
	loader := config.NewLoader(dirs...)

	checkers, err := config.LoadCheckers(loader)
	if err != nil {
		return nil, err
	}
	results, err := config.LoadResults(loader)
	if err != nil {
		return nil, err
	}
	problems, err := config.LoadProblems(loader, problemsetDir)
	if err != nil {
		return nil, err
	}
	misc, err := config.LoadMisc(loader, config.ResourceDirs(cacheStorage().Dir()))
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded configuration",
		"checkers", checkers.Len(), "problems", problems.Len(), "testlib", misc.Testlib)

	return &convert.Env{
		Checkers: checkers,
		Results:  results,
		Problems: problems,
		Misc:     misc,
	}, nil
}

func fetchTestlibAction(ctx context.Context, cmd *cli.Command) error {
	s := cacheStorage()
	cached, err := s.HasTestlib()
	if err != nil {
		return err
	}
	if cached && !cmd.Bool("force") {
		slog.Info("testlib already cached, use --force to replace it", "path", s.TestlibPath())
		return nil
	}
	path, err := s.FetchTestlib(ctx, cmd.String("url"), cmd.Bool("force"))
	if err != nil {
		return err
	}
	slog.Info("testlib is ready", "path", path)
	return nil
}
