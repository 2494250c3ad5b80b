package processor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/streambinder/wavgrab/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, path string, bitDepth int) {
	t.Helper()
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	encoder := wav.NewEncoder(file, 44100, bitDepth, 2, wavFormatPCM)
	buffer := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 44100},
		Data:           make([]int, 2*44100),
		SourceBitDepth: bitDepth,
	}
	for i := range buffer.Data {
		buffer.Data[i] = i % 128
	}
	require.NoError(t, encoder.Write(buffer))
	require.NoError(t, encoder.Close())
}

func junk(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("not audio at all"), 0o644))
}

func TestWave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Song [id].wav")
	encode(t, path, 16)

	artifact := &entity.Artifact{Path: path}
	assert.True(t, Wave{}.Applies(artifact))
	assert.False(t, Mp3{}.Applies(artifact))
	assert.Nil(t, Wave{}.Do(context.Background(), artifact))
	assert.Nil(t, Do(context.Background(), artifact))
}

func TestWaveBitDepth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Song [id].wav")
	encode(t, path, 24)
	assert.ErrorIs(t, Wave{}.Do(context.Background(), &entity.Artifact{Path: path}), ErrNotPCM16)
}

func TestWaveJunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Song [id].wav")
	junk(t, path)
	assert.ErrorIs(t, Do(context.Background(), &entity.Artifact{Path: path}), ErrNotPCM16)
}

func TestWaveMissing(t *testing.T) {
	assert.Error(t, Wave{}.Do(context.Background(), &entity.Artifact{Path: filepath.Join(t.TempDir(), "missing.wav")}))
}

func TestMp3Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Song [id].mp3")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	artifact := &entity.Artifact{Path: path}
	assert.True(t, Mp3{}.Applies(artifact))
	assert.False(t, Wave{}.Applies(artifact))
	assert.ErrorIs(t, Mp3{}.Do(context.Background(), artifact), ErrNoFrames)
}

func TestMp3Junk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Song [id].mp3")
	junk(t, path)
	assert.Error(t, Do(context.Background(), &entity.Artifact{Path: path}))
}

func TestDoNoProcessor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Song [id].flac")
	junk(t, path)
	assert.Nil(t, Do(context.Background(), &entity.Artifact{Path: path}))
}
