// Package notify delivers best-effort desktop notifications. Delivery is
// fire-and-forget: a missing tool or failed exec is reported to the caller,
// who is expected to swallow it.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Desktop sends notifications through the platform's notifier binary.
type Desktop struct{}

// Notify raises one desktop notification. Never retried.
func (Desktop) Notify(title, body string) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		return exec.Command("osascript", "-e", script).Run()
	case "linux":
		return exec.Command("notify-send", title, body).Run()
	default:
		return fmt.Errorf("no notifier for %s", runtime.GOOS)
	}
}
