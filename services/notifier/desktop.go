package notifier

import (
	"context"
	"fmt"
	"os/exec"

	apperrors "zuverschenken/adwatcher/pkg/errors"
)

// Runner executes a command. It exists so tests can capture invocations.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, out)
	}
	return nil
}

// Desktop shows alerts in the macOS Notification Center via terminal-notifier
type Desktop struct {
	command string
	run     Runner
}

// NewDesktop creates a Desktop sink using the given terminal-notifier binary
func NewDesktop(command string) *Desktop {
	return &Desktop{command: command, run: execRunner}
}

// Available reports whether the notifier binary can be found
func (d *Desktop) Available() bool {
	_, err := exec.LookPath(d.command)
	return err == nil
}

// Notify pops up the alert
func (d *Desktop) Notify(ctx context.Context, alert Alert) error {
	args := []string{
		"-title", alert.Title,
		"-message", alert.Message,
		"-open", alert.Link,
	}
	if alert.Sound != "" {
		args = append(args, "-sound", alert.Sound)
	}
	if err := d.run(ctx, d.command, args...); err != nil {
		return apperrors.NewPublisher(d.Name(), "failed to show notification", err)
	}
	return nil
}

// Name returns the sink name
func (d *Desktop) Name() string {
	return "desktop"
}
