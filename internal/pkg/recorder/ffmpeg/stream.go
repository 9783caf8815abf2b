package ffmpeg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
)

const (
	readSize    = 4096
	waitTimeout = 3 * time.Second
)

type stream struct {
	cmd       *exec.Cmd
	out       io.Reader
	chunks    chan []byte
	mimeType  string
	timeSlice time.Duration
	stopOnce  sync.Once
}

func startStream(cmd *exec.Cmd, mimeType string, timeSlice time.Duration) (*stream, error) {
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("can't get stdout: %w", err)
	}
	cmd.Stderr = &logWriter{}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("can't start ffmpeg: %w", err)
	}
	goapp.Log.Info().Int("pid", cmd.Process.Pid).Msg("ffmpeg started")
	res := &stream{cmd: cmd, out: out, chunks: make(chan []byte, 10), mimeType: mimeType, timeSlice: timeSlice}
	go res.read()
	return res, nil
}

func (s *stream) read() {
	defer close(s.chunks)
	buf := make([]byte, readSize)
	var pending []byte
	last := time.Now()
	for {
		n, err := s.out.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
		}
		if len(pending) > 0 && (err != nil || time.Since(last) >= s.timeSlice) {
			s.chunks <- pending
			pending = nil
			last = time.Now()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				goapp.Log.Warn().Err(err).Msg("ffmpeg read")
			}
			return
		}
	}
}

func (s *stream) Chunks() <-chan []byte {
	return s.chunks
}

func (s *stream) MimeType() string {
	return s.mimeType
}

// Stop asks ffmpeg to finish, it flushes the container and closes stdout
func (s *stream) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		if err = s.cmd.Process.Signal(os.Interrupt); err != nil {
			err = s.cmd.Process.Kill()
		}
	})
	return err
}

// Release waits for the process, kills it if it does not exit in time
func (s *stream) Release() error {
	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()
	select {
	case err := <-done:
		return ignoreSignaled(err)
	case <-time.After(waitTimeout):
		goapp.Log.Warn().Msg("ffmpeg did not exit, kill")
		if err := s.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("can't kill ffmpeg: %w", err)
		}
		return ignoreSignaled(<-done)
	}
}

func ignoreSignaled(err error) error {
	var ee *exec.ExitError
	if errors.As(err, &ee) && !ee.Exited() {
		return nil
	}
	return err
}
