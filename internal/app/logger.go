package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// LogEnvVar names a JSON log file to write when --log-file is not given.
const LogEnvVar = "RUN_CLANG_FORMAT_LOG_FILE"

// setupLogger configures a logger that writes human-readable logs to stderr
// and, when logPath is set, structured logs to that file. The file always
// receives debug records tagged with runID.
func setupLogger(stderr io.Writer, logLevel *slog.LevelVar, logPath, runID string) (*slog.Logger, io.Closer, error) {
	console := &consoleHandler{
		next:  newConsoleLogger(stderr),
		level: logLevel,
	}
	if logPath == "" {
		return slog.New(console), nil, nil
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(console), nil, err
	}

	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}).WithAttrs([]slog.Attr{slog.String("run_id", runID)})

	return slog.New(&multiHandler{handlers: []slog.Handler{fileHandler, console}}), f, nil
}

func newConsoleLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Level:  log.DebugLevel,
		Prefix: "run-clang-format",
	})

	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().SetString("debug").Faint(true)
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().SetString("info").Foreground(lipgloss.Color("6"))
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().SetString("warning").Bold(true).Foreground(lipgloss.Color("3"))
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().SetString("error").Bold(true).Foreground(lipgloss.Color("1"))
	l.SetStyles(styles)
	return l
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// consoleHandler gates a handler on a level that can change after the
// logger is built, so --debug applies to loggers already handed out.
type consoleHandler struct {
	next  slog.Handler
	level *slog.LevelVar
}

func (c *consoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= c.level.Level() && c.next.Enabled(ctx, level)
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(ctx context.Context, record slog.Record) error {
	return c.next.Handle(ctx, record)
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{next: c.next.WithAttrs(attrs), level: c.level}
}

func (c *consoleHandler) WithGroup(name string) slog.Handler {
	return &consoleHandler{next: c.next.WithGroup(name), level: c.level}
}
