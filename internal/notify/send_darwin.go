//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
)

// platformNotify displays a notification using macOS Notification Center.
func platformNotify(title, body string, _ Options) error {
	script := fmt.Sprintf("display notification %q with title %q", body, title)
	return exec.Command("osascript", "-e", script).Run()
}
