package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/apex/log"
	"github.com/streambinder/wavgrab/entity"
	"github.com/streambinder/wavgrab/util"
)

const reportMaxSize = 1 << 20

type lockedWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writer.Write(p)
}

// routineRelay copies the dependency diagnostic stream as it comes.
// After a failing write the stream is drained so that the dependency never blocks.
func routineRelay(src io.Reader, dst io.Writer) func(context.Context, chan error) {
	return func(_ context.Context, ch chan error) {
		if _, err := io.Copy(dst, src); err != nil {
			util.ErrSuppress(drain(src))
			ch <- fmt.Errorf("relay: %w", err)
		}
	}
}

// routineCollect gathers the reports printed on the dependency standard output,
// any other line is forwarded to the diagnostic stream.
func routineCollect(src io.Reader, dst io.Writer, reports *[]entity.Report) func(context.Context, chan error) {
	return func(ctx context.Context, ch chan error) {
		scanner := bufio.NewScanner(src)
		scanner.Buffer(make([]byte, 64*1024), reportMaxSize)
		for scanner.Scan() {
			if report, err := entity.ParseReport(scanner.Bytes()); err == nil {
				*reports = append(*reports, *report)
				continue
			}
			if _, err := fmt.Fprintln(dst, scanner.Text()); err != nil {
				util.ErrSuppress(drain(src))
				ch <- fmt.Errorf("relay: %w", err)
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.FromContext(ctx).WithError(err).Warn("dropping unreadable dependency output")
			util.ErrSuppress(drain(src))
		}
	}
}

func drain(src io.Reader) error {
	_, err := io.Copy(io.Discard, src)
	return err
}
