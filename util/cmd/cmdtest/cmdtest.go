// Package cmdtest turns a test binary into a stand-in for the download
// dependency: tests point the dependency path to os.Executable() and
// drive its behavior through environment variables.
package cmdtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	EnvEnabled = "WAVGRAB_FAKE_DEPENDENCY"
	EnvStderr  = "WAVGRAB_FAKE_STDERR"  // written to stderr in two chunks
	EnvStdout  = "WAVGRAB_FAKE_STDOUT"  // written to stdout before the report
	EnvCreate  = "WAVGRAB_FAKE_CREATE"  // file created in the working directory
	EnvReport  = "WAVGRAB_FAKE_REPORT"  // report the created file on stdout
	EnvSleep   = "WAVGRAB_FAKE_SLEEP"   // time.Duration to sleep before exiting
	EnvExit    = "WAVGRAB_FAKE_EXIT"    // exit code
	EnvArgs    = "WAVGRAB_FAKE_ARGS"    // file receiving the arguments, one per line
	EnvStarted = "WAVGRAB_FAKE_STARTED" // file touched as soon as the process starts
)

// Enable sets the environment so that processes spawned by the test
// behave as the fake dependency, and returns the binary to spawn.
func Enable(setenv func(key, value string)) string {
	executable, err := os.Executable()
	if err != nil {
		panic(err)
	}
	setenv(EnvEnabled, "1")
	return executable
}

// Run acts as the fake dependency and exits if the environment asks for it,
// otherwise it returns immediately. Call it first thing in TestMain.
func Run() {
	if os.Getenv(EnvEnabled) != "1" {
		return
	}
	os.Exit(fake())
}

func fake() int {
	if path := os.Getenv(EnvStarted); len(path) > 0 {
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return 100
		}
	}
	if path := os.Getenv(EnvArgs); len(path) > 0 {
		if err := os.WriteFile(path, []byte(strings.Join(os.Args[1:], "\n")), 0o644); err != nil {
			return 100
		}
	}

	if stderr := os.Getenv(EnvStderr); len(stderr) > 0 {
		half := len(stderr) / 2
		fmt.Fprint(os.Stderr, stderr[:half])
		fmt.Fprint(os.Stderr, stderr[half:])
	}
	if stdout := os.Getenv(EnvStdout); len(stdout) > 0 {
		fmt.Fprintln(os.Stdout, stdout)
	}

	if name := os.Getenv(EnvCreate); len(name) > 0 {
		if err := os.WriteFile(name, []byte("RIFF"), 0o644); err != nil {
			return 100
		}
		if os.Getenv(EnvReport) == "1" {
			report, _ := jsoniter.Marshal(map[string]string{
				"id":       "fake",
				"title":    strings.TrimSuffix(name, filepath.Ext(name)),
				"ext":      strings.TrimPrefix(filepath.Ext(name), "."),
				"filepath": name,
			})
			fmt.Fprintln(os.Stdout, string(report))
		}
	}

	if sleep, err := time.ParseDuration(os.Getenv(EnvSleep)); err == nil {
		time.Sleep(sleep)
	}

	code, _ := strconv.Atoi(os.Getenv(EnvExit))
	return code
}
