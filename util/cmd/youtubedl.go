package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/arunsworld/nursery"
	"github.com/streambinder/wavgrab/entity"
)

const (
	Binary = "yt-dlp"
	// time left to the dependency between termination signal and kill
	terminationGrace = 5 * time.Second
	reportTemplate   = "after_move:%(.{id,title,ext,filepath})j"
)

// Resolve locates the dependency binary: override, if set, wins over
// the command search path lookup.
func Resolve(override string) (string, error) {
	if len(override) > 0 {
		info, err := os.Stat(override)
		if err != nil {
			return "", fmt.Errorf("%w: %v", entity.ErrDependencyNotFound, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%w: %s is a directory", entity.ErrDependencyNotFound, override)
		}
		// the dependency runs in the output directory
		return filepath.Abs(override)
	}

	path, err := exec.LookPath(Binary)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrDependencyNotFound, err)
	}
	return path, nil
}

func Arguments(url string, format entity.Format) []string {
	args := []string{
		"--extract-audio",
		"--audio-format", format.Codec,
		"--audio-quality", "0",
	}
	if len(format.PostprocessorArgs) > 0 {
		args = append(args, "--postprocessor-args", "ffmpeg:"+format.PostprocessorArgs)
	}
	return append(args,
		"--output", entity.OutputTemplate,
		"--print", reportTemplate,
		"--progress",
		"--", url,
	)
}

// YouTubeDl runs the dependency against the request, relaying its
// diagnostic stream to stderr, and locates the produced artifact.
func YouTubeDl(ctx context.Context, request entity.Request, stderr io.Writer) (*entity.Artifact, error) {
	var logger = log.FromContext(ctx)

	binary, err := Resolve(request.DependencyPath)
	if err != nil {
		return nil, err
	}

	if request.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, request.Timeout)
		defer cancel()
	}

	var (
		args                       = Arguments(request.URL, request.Format)
		stdoutReader, stdoutWriter = io.Pipe()
		stderrReader, stderrWriter = io.Pipe()
		relay                      = &lockedWriter{writer: stderr}
		reports                    []entity.Report
		waitErr                    error
		cmd                        = exec.CommandContext(ctx, binary, args...)
	)
	cmd.Dir = request.Dir()
	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = terminationGrace

	logger.WithFields(log.Fields{
		"binary": binary,
		"dir":    cmd.Dir,
	}).Debugf("running %s", strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		stdoutWriter.Close()
		stderrWriter.Close()
		return nil, fmt.Errorf("%w: %v", entity.ErrDependencyNotFound, err)
	}

	relayErr := nursery.RunConcurrentlyWithContext(ctx,
		routineRelay(stderrReader, relay),
		routineCollect(stdoutReader, relay, &reports),
		func(context.Context, chan error) {
			waitErr = cmd.Wait()
			stdoutWriter.Close()
			stderrWriter.Close()
		},
	)

	if waitErr != nil {
		if request.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s did not complete within %s", entity.ErrTimeout, filepath.Base(binary), request.Timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return nil, &entity.DependencyError{Binary: filepath.Base(binary), ExitCode: exitErr.ExitCode()}
		}
		return nil, fmt.Errorf("%s: %w", filepath.Base(binary), waitErr)
	}
	if relayErr != nil {
		return nil, relayErr
	}

	artifact, candidates, err := entity.Locate(request.Dir(), request.Format, reports)
	if err != nil {
		return nil, err
	}
	if candidates > 1 {
		logger.WithError(entity.ErrArtifactAmbiguous).
			WithField("candidates", candidates).
			Warnf("picking most recent %s", artifact.Path)
	}
	logger.WithField("reported", artifact.Reported).Debugf("located %s", artifact.Path)
	return artifact, nil
}
