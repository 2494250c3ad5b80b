package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/go-audio/wav"
	"github.com/streambinder/wavgrab/entity"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xfffe
)

var ErrNotPCM16 = errors.New("not a 16-bit PCM wave")

// Wave verifies the artifact is an uncompressed 16-bit little-endian PCM wave
type Wave struct{}

func (Wave) Applies(artifact *entity.Artifact) bool {
	return strings.EqualFold(filepath.Ext(artifact.Path), ".wav")
}

func (Wave) Do(ctx context.Context, artifact *entity.Artifact) error {
	file, err := os.Open(artifact.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return fmt.Errorf("%w: invalid RIFF/WAVE header", ErrNotPCM16)
	}
	if decoder.WavAudioFormat != wavFormatPCM && decoder.WavAudioFormat != wavFormatExtensible {
		return fmt.Errorf("%w: audio format tag %#x", ErrNotPCM16, decoder.WavAudioFormat)
	}
	if decoder.BitDepth != 16 {
		return fmt.Errorf("%w: %d bits per sample", ErrNotPCM16, decoder.BitDepth)
	}

	duration, err := decoder.Duration()
	if err != nil {
		return err
	}
	log.FromContext(ctx).WithFields(log.Fields{
		"channels":    decoder.NumChans,
		"sample_rate": decoder.SampleRate,
		"duration":    duration,
	}).Debug("wave artifact")
	return nil
}
