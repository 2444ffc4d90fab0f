package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/cruciblehq/doe/internal"
	"github.com/joho/godotenv"
)

// Represents the root command for doe.
var RootCmd struct {
	Quiet    bool       `short:"q" help:"Suppress informational output."`
	Verbose  bool       `short:"v" help:"Enable verbose output."`
	Debug    bool       `short:"d" help:"Enable debug output."`
	CacheDir string     `help:"Override the cache directory." env:"DOE_CACHE_DIR" placeholder:"DIR" type:"path"`
	Prepare  PrepareCmd `cmd:"" help:"Generate the runtime bundle of a container."`
	Version  VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// A missing .env file is not an error.
	_ = godotenv.Load()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Rootless container bundle generator.\n\nResolves a container's image and writes an OCI runtime bundle for it."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	internal.Configure(RootCmd.Quiet, RootCmd.Debug, RootCmd.Verbose)

	logger, ok := slog.Default().Handler().(*log.Logger)
	if !ok {
		return // Not a charmbracelet logger, nothing to configure
	}

	logger.SetLevel(log.Level(internal.LogLevel()))

	verbose := internal.IsVerbose()
	logger.SetReportTimestamp(verbose)
	logger.SetReportCaller(verbose)
}
