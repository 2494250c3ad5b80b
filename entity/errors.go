package entity

import (
	"errors"
	"fmt"
)

var (
	ErrUsage              = errors.New("usage error")
	ErrDependencyNotFound = errors.New("dependency not found")
	ErrDependencyFailed   = errors.New("dependency failed")
	ErrArtifactNotFound   = errors.New("download completed but artifact not found")
	ErrArtifactAmbiguous  = errors.New("multiple artifacts found")
	ErrTimeout            = errors.New("timed out")
)

// DependencyError is returned when the dependency ran and exited non-zero.
type DependencyError struct {
	Binary   string
	ExitCode int
}

func (err *DependencyError) Error() string {
	if err.ExitCode < 0 {
		return fmt.Sprintf("%s terminated by signal", err.Binary)
	}
	return fmt.Sprintf("%s failed with exit code %d", err.Binary, err.ExitCode)
}

func (err *DependencyError) Unwrap() error {
	return ErrDependencyFailed
}
