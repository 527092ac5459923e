// Package rclone mirrors a local tree to a bucket by driving an external rclone
// process and turning its stats output into job progress.
package rclone

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const maxCapturedStderr = 1 << 20

// pipeGrace bounds how long stderr is drained after rclone exits
var pipeGrace = 2 * time.Second

// ReportFunc receives progress parsed from the rclone stderr stream
type ReportFunc func(percent *float64, message string)

// SyncRequest describes one directory-to-bucket sync
type SyncRequest struct {
	Source string
	Bucket string
	Folder string
	Remote Remote
}

// Runner executes rclone sync runs. StatsLogLevel sets --stats-log-level;
// rclone logs stats at INFO otherwise, which its default verbosity hides.
type Runner struct {
	Path          string
	TempDir       string
	Stats         string
	StatsLogLevel string
	ExtraArgs     []string
	Logger        zerolog.Logger
}

// Destination returns "<remote>:<bucket>[/<folder>]"
func Destination(remote, bucket, folder string) string {
	if folder == "" {
		return fmt.Sprintf("%s:%s", remote, bucket)
	}
	return fmt.Sprintf("%s:%s", remote, path.Join(bucket, folder))
}

func (r *Runner) args(configPath string, req SyncRequest) []string {
	stats := r.Stats
	if stats == "" {
		stats = "1s"
	}
	args := []string{"--config", configPath, "--stats", stats}
	if r.StatsLogLevel != "" {
		args = append(args, "--stats-log-level", r.StatsLogLevel)
	}
	args = append(args, r.ExtraArgs...)
	return append(args, "sync", req.Source, Destination(RemoteName, req.Bucket, req.Folder))
}

// Sync runs rclone for req and blocks until it exits. The stderr stream is scanned
// concurrently and every progress line is handed to report. The scanner is always
// joined before Sync returns, and the temporary config is removed on every path.
func (r *Runner) Sync(ctx context.Context, req SyncRequest, report ReportFunc) error {
	configPath, cleanup, err := WriteConfig(r.TempDir, req.Remote)
	if err != nil {
		return err
	}
	defer cleanup()

	args := r.args(configPath, req)
	r.Logger.Info().
		Str("source", req.Source).
		Str("destination", args[len(args)-1]).
		Msg("starting rclone sync")

	pr, pw, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	defer pr.Close()

	cmd := exec.CommandContext(ctx, r.Path, args...)
	cmd.Stdout = nil
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return fmt.Errorf("failed to start rclone: %w", err)
	}
	pw.Close()

	stderr := newTailBuffer(maxCapturedStderr)
	var g errgroup.Group
	g.Go(func() error {
		return scan(pr, stderr, report)
	})

	waitErr := cmd.Wait()
	// a leftover child may still hold the pipe open
	if ctx.Err() != nil {
		pr.Close()
	} else {
		timer := time.AfterFunc(pipeGrace, func() { pr.Close() })
		defer timer.Stop()
	}
	if err := g.Wait(); err != nil && !errors.Is(err, os.ErrClosed) {
		r.Logger.Warn().Err(err).Msg("failed to read rclone output")
	}

	if waitErr != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("rclone sync cancelled: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return &SyncFailedError{ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return fmt.Errorf("rclone failed: %w", waitErr)
	}

	r.Logger.Info().Str("source", req.Source).Msg("rclone sync completed")
	return nil
}

// scan reads r line by line without a line length limit
func scan(r io.Reader, captured io.Writer, report ReportFunc) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			captured.Write([]byte(line))
			if msg, pct, ok := ParseProgress(line); ok && report != nil {
				report(pct, msg)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// tailBuffer keeps the last max bytes written to it
type tailBuffer struct {
	buf []byte
	max int
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.max; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	return string(b.buf)
}
