package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/streambinder/wavgrab/entity"
	"github.com/streambinder/wavgrab/processor"
	"github.com/streambinder/wavgrab/util"
	ytcmd "github.com/streambinder/wavgrab/util/cmd"
)

const (
	envDependencyPath = "WAVGRAB_DEPENDENCY_PATH"
	exitTimeout       = 124
)

var version = "dev"

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	messages := stderr
	if file, ok := stderr.(*os.File); ok {
		messages = colorable.NewColorable(file)
		color.NoColor = !isatty.IsTerminal(file.Fd()) && !isatty.IsCygwinTerminal(file.Fd())
	} else {
		color.NoColor = true
	}

	root := cmdRoot(stdout, stderr, messages)
	root.SetArgs(args)
	root.SetErr(messages)
	cmd, err := root.ExecuteContextC(ctx)
	if err != nil {
		color.New(color.FgRed).Fprintf(messages, "Error: %v\n", err)
		if errors.Is(err, entity.ErrUsage) {
			fmt.Fprint(messages, cmd.UsageString())
		}
	}
	return ExitCode(err)
}

// ExitCode maps the run outcome to the process exit status:
// the dependency own status is propagated when it caused the failure.
func ExitCode(err error) int {
	var dependencyErr *entity.DependencyError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &dependencyErr) && dependencyErr.ExitCode > 0:
		return dependencyErr.ExitCode
	case errors.Is(err, entity.ErrTimeout):
		return exitTimeout
	default:
		return 1
	}
}

func cmdRoot(stdout, stderr, messages io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wavgrab <url>",
		Short:         "Download the audio track of a video as 16-bit PCM wave",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: accepts 1 url, received %d", entity.ErrUsage, len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				outputDir      = util.ErrWrap(".")(cmd.Flags().GetString("output-dir"))
				timeout        = util.ErrWrap(0)(cmd.Flags().GetInt("timeout"))
				dependencyPath = util.ErrWrap("")(cmd.Flags().GetString("dependency-path"))
				codec          = util.ErrWrap(entity.DefaultFormat)(cmd.Flags().GetString("format"))
				verbose        = util.ErrWrap(false)(cmd.Flags().GetBool("verbose"))
			)

			if !cmd.Flags().Changed("dependency-path") {
				dependencyPath = os.Getenv(envDependencyPath)
			}

			format, err := entity.ParseFormat(codec)
			if err != nil {
				return err
			}
			request := entity.Request{
				URL:            args[0],
				Format:         format,
				OutputDir:      outputDir,
				DependencyPath: dependencyPath,
				Timeout:        time.Duration(timeout) * time.Second,
			}
			if err := request.Validate(); err != nil {
				return err
			}

			logger := &log.Logger{Handler: cli.New(messages), Level: log.InfoLevel}
			if verbose {
				logger.Level = log.DebugLevel
			}
			ctx := log.NewContext(cmd.Context(), logger)

			artifact, err := ytcmd.YouTubeDl(ctx, request, stderr)
			if err != nil {
				return err
			}
			if err := processor.Do(ctx, artifact); err != nil {
				logger.WithError(err).Warnf("unexpected content in %s", artifact.Path)
			}

			_, err = fmt.Fprintln(stdout, artifact.Path)
			return err
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", entity.ErrUsage, err)
	})
	cmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	cmd.Flags().StringP("output-dir", "o", ".", "Directory the dependency runs in and the artifact is looked up in")
	cmd.Flags().Int("timeout", 0, "Seconds after which the download is terminated (disabled if 0)")
	cmd.Flags().String("dependency-path", "", "Path to the "+ytcmd.Binary+" binary (looked up in PATH if unset, or $"+envDependencyPath+")")
	cmd.Flags().StringP("format", "f", entity.DefaultFormat, "Audio format ("+strings.Join(entity.Formats(), ", ")+")")
	cmd.Flags().BoolP("verbose", "v", false, "Log debug messages")
	return cmd
}
