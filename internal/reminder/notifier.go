package reminder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// ConsoleNotifier prints each message as a simulated email. It never fails.
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

func (n *ConsoleNotifier) Notify(_ context.Context, recipient, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	title := color.New(color.FgCyan, color.Bold)

	title.Fprintln(n.out, "--- SIMULATED EMAIL REMINDER ---")
	fmt.Fprintf(n.out, "To: %s\n", recipient)
	fmt.Fprintf(n.out, "Subject: %s\n", subject)
	fmt.Fprintf(n.out, "Body:\n%s\n", strings.TrimRight(body, "\n"))
	title.Fprintln(n.out, "--------------------------------")

	return nil
}

// LogNotifier records each message in the log instead of sending it. It never fails.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, recipient, subject, body string) error {
	n.log.Info("simulated reminder",
		slog.String("to", recipient),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(body)),
	)
	return nil
}
