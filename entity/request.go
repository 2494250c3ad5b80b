package entity

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const OutputTemplate = "%(title)s [%(id)s].%(ext)s"

type Request struct {
	URL            string
	Format         Format
	OutputDir      string
	DependencyPath string        // empty means resolve from PATH
	Timeout        time.Duration // zero means no timeout
}

func (request Request) Validate() error {
	if len(strings.TrimSpace(request.URL)) == 0 {
		return fmt.Errorf("%w: empty url", ErrUsage)
	}
	if len(request.Format.Extension) == 0 {
		return fmt.Errorf("%w: no format set", ErrUsage)
	}
	if request.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrUsage)
	}

	info, err := os.Stat(request.Dir())
	if err != nil {
		return fmt.Errorf("%w: output directory: %v", ErrUsage, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: output directory %s is not a directory", ErrUsage, request.Dir())
	}
	return nil
}

func (request Request) Dir() string {
	if len(request.OutputDir) == 0 {
		return "."
	}
	return request.OutputDir
}
