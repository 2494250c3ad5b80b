package processor

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/streambinder/wavgrab/entity"
	"github.com/tcolgate/mp3"
)

var ErrNoFrames = errors.New("no mp3 frames")

// Mp3 verifies the artifact holds decodable mp3 frames
type Mp3 struct{}

func (Mp3) Applies(artifact *entity.Artifact) bool {
	return strings.EqualFold(filepath.Ext(artifact.Path), ".mp3")
}

func (Mp3) Do(ctx context.Context, artifact *entity.Artifact) error {
	file, err := os.Open(artifact.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	var (
		decoder  = mp3.NewDecoder(file)
		frame    mp3.Frame
		skipped  int
		frames   int
		duration time.Duration
	)
	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		frames++
		duration += frame.Duration()
	}
	if frames == 0 {
		return ErrNoFrames
	}

	log.FromContext(ctx).WithFields(log.Fields{
		"frames":   frames,
		"duration": duration,
	}).Debug("mp3 artifact")
	return nil
}
