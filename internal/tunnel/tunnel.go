// Package tunnel exposes the local server to the internet through
// localtunnel. It shells out to npx, so a missing node toolchain simply
// means no public URL; the app keeps serving locally either way.
package tunnel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"

	"go.uber.org/zap"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Open runs `npx localtunnel --port <port>` and calls onURL once with the
// public URL the subprocess prints. It blocks until the subprocess exits or
// ctx is cancelled, so callers normally run it in a goroutine.
func Open(ctx context.Context, port int, logger *zap.Logger, onURL func(url string)) error {
	cmd := exec.CommandContext(ctx, "npx", "localtunnel", "--port", strconv.Itoa(port))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start localtunnel: %w", err)
	}

	watch(stdout, logger, onURL)

	// The scanner drained stdout to EOF, so Wait only reaps the process.
	// A kill caused by ctx cancellation is a normal shutdown, not an error.
	if err := cmd.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("localtunnel exited: %w", err)
	}
	return nil
}

// watch scans the subprocess output for the first URL and reports it. It
// keeps reading until EOF so the subprocess never blocks on a full pipe.
func watch(r io.Reader, logger *zap.Logger, onURL func(url string)) {
	scanner := bufio.NewScanner(r)
	announced := false
	for scanner.Scan() {
		if announced {
			continue
		}
		if url := urlPattern.FindString(scanner.Text()); url != "" {
			announced = true
			logger.Info("localtunnel ready", zap.String("url", url))
			if onURL != nil {
				onURL(url)
			}
		}
	}
}
