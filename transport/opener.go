package transport

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Opener launches the OS handler for a URI. Command overrides the
// platform default (xdg-open / open / rundll32).
type Opener struct {
	Command string
	Logger  *slog.Logger
}

// NewOpener creates an Opener. Empty command selects the platform default.
func NewOpener(command string, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{Command: command, Logger: logger}
}

// Send composes the sms: URI and hands it to the OS. The handler process is
// released, not awaited: message delivery is outside our visibility.
func (o *Opener) Send(ctx context.Context, phone, body string) error {
	if phone == "" {
		return fmt.Errorf("transport: no recipient phone number")
	}

	uri := ComposeURI(phone, body)

	name, args := o.command()
	cmd := exec.CommandContext(ctx, name, append(args, uri)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("transport: open %s: %w", name, err)
	}
	go cmd.Wait() // reap; exit status is meaningless for URI handlers

	o.Logger.Info("transport: handed off to OS",
		"recipient", phone, "chars", len(body))
	return nil
}

func (o *Opener) command() (string, []string) {
	if o.Command != "" {
		return o.Command, nil
	}
	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return "xdg-open", nil
	}
}
