package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"golang.org/x/term"

	"github.com/stolasapp/quill/internal/config"
	"github.com/stolasapp/quill/internal/storage"
)

type configKey struct{}

// prompt writes msg to stderr when stdin is a terminal and reads the answer.
// With mask set, the answer is not echoed back.
func prompt(msg string, mask bool) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLine(os.Stdin)
	}
	if _, err := os.Stderr.WriteString(msg); err != nil {
		return nil, err
	}
	if mask {
		line, err := term.ReadPassword(fd)
		_, _ = os.Stderr.WriteString("\n")
		return line, err
	}
	return readLine(os.Stdin)
}

// readLine reads up to the end of the line, one byte at a time so nothing past
// it is consumed. A trailing carriage return is dropped. Follows
// term.readPasswordLine.
func readLine(r io.Reader) ([]byte, error) {
	var buf [1]byte
	var line []byte
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			switch buf[0] {
			case '\b':
				if len(line) > 0 {
					line = line[:len(line)-1]
				}
			case '\n':
				return bytes.TrimSuffix(line, []byte{'\r'}), nil
			default:
				line = append(line, buf[0])
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				return bytes.TrimSuffix(line, []byte{'\r'}), nil
			}
			return line, err
		}
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}

// loadConfig returns the config resolved by the root command along with the
// default logger and an open store. The caller must close the store.
func loadConfig(ctx context.Context) (*config.Config, *slog.Logger, *storage.DB, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, nil, nil, errors.New("config file resolution failed")
	}
	logger := slog.Default()
	store, err := storage.NewDB(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, logger, store, nil
}
