package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/arunsworld/nursery"
	"github.com/streambinder/wavgrab/entity"
	"github.com/stretchr/testify/assert"
)

var errBrokenPipe = errors.New("broken pipe")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errBrokenPipe
}

func TestRoutineRelayDrains(t *testing.T) {
	src := strings.NewReader(strings.Repeat("x", 1<<17))
	err := nursery.RunConcurrently(routineRelay(src, failingWriter{}))
	assert.ErrorIs(t, err, errBrokenPipe)
	assert.Zero(t, src.Len())
}

func TestRoutineCollect(t *testing.T) {
	var (
		dst     bytes.Buffer
		reports []entity.Report
		src     = strings.NewReader(strings.Join([]string{
			"[ExtractAudio] Destination: A [a].wav",
			`{"id": "a", "title": "A", "ext": "wav", "filepath": "A [a].wav"}`,
			`{"id": "b", "title": "B", "ext": "wav", "filepath": "B [b].wav"}`,
		}, "\n"))
	)
	assert.Nil(t, nursery.RunConcurrently(routineCollect(src, &dst, &reports)))
	assert.Equal(t, "[ExtractAudio] Destination: A [a].wav\n", dst.String())
	assert.Len(t, reports, 2)
	assert.Equal(t, "B [b].wav", reports[1].Filepath)
}

func TestRoutineCollectDrains(t *testing.T) {
	var (
		reports []entity.Report
		src     = strings.NewReader("not a report\n" + strings.Repeat("y", 1<<17))
	)
	err := nursery.RunConcurrently(routineCollect(src, failingWriter{}, &reports))
	assert.ErrorIs(t, err, errBrokenPipe)
	assert.Zero(t, src.Len())
	assert.Empty(t, reports)
}
