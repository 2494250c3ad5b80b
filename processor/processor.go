// Package processor holds the checks run against a located artifact
// before its path is reported.
package processor

import (
	"context"
	"fmt"

	"github.com/streambinder/wavgrab/entity"
)

type Processor interface {
	Applies(artifact *entity.Artifact) bool
	Do(ctx context.Context, artifact *entity.Artifact) error
}

var processors = []Processor{Wave{}, Mp3{}}

// Do runs every processor applying to the artifact, stopping at the first failure
func Do(ctx context.Context, artifact *entity.Artifact) error {
	for _, processor := range processors {
		if !processor.Applies(artifact) {
			continue
		}
		if err := processor.Do(ctx, artifact); err != nil {
			return fmt.Errorf("%T: %w", processor, err)
		}
	}
	return nil
}
