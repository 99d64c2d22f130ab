// internal/logs/logs.go
package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Level is shared by every logger built here, so it can be changed at runtime.
var Level = new(slog.LevelVar)

// SetLevel parses debug, info, warn or error into Level.
func SetLevel(s string) error {
	switch strings.ToLower(s) {
	case "debug":
		Level.Set(slog.LevelDebug)
	case "", "info":
		Level.Set(slog.LevelInfo)
	case "warn":
		Level.Set(slog.LevelWarn)
	case "error":
		Level.Set(slog.LevelError)
	default:
		return fmt.Errorf("logs: unknown level %q", s)
	}
	return nil
}

type Options struct {
	Writer  io.Writer // terminal output, default stderr
	Process string    // added to every record as "process"
	Journal bool      // also log to the systemd journal when reachable
}

// New builds the process logger: a text handler unless running as a systemd
// service, fanned out with a journal handler when one can be opened.
func New(opts Options) *slog.Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	var handlers []slog.Handler

	var terminal slog.Handler
	if !opts.Journal || !isSystemdService() {
		terminal = slog.NewTextHandler(opts.Writer, &slog.HandlerOptions{Level: Level})
		handlers = append(handlers, terminal)
	}

	if opts.Journal {
		journal, err := slogjournal.NewHandler(&slogjournal.Options{
			Level:        Level,
			ReplaceGroup: toJournalKey,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			if terminal == nil {
				terminal = slog.NewTextHandler(opts.Writer, &slog.HandlerOptions{Level: Level})
				handlers = append(handlers, terminal)
			}
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "systemd journal unavailable", 0)
			record.Add("err", err)
			_ = terminal.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journal)
		}
	}

	logger := slog.New(slogmulti.Fanout(handlers...))
	if opts.Process != "" {
		logger = logger.With("process", opts.Process)
	}
	return logger
}

func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
}

func isSystemdService() bool {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) < 3 {
		return false
	}
	return strings.HasSuffix(path.Dir(parts[2]), ".service")
}
