//go:build darwin

package platform

import "os/exec"

// Notify posts a Notification Center banner through osascript. IconPath and
// Expire are ignored; banners always use the script host's icon.
func Notify(title, body string, opts Options) error {
	return exec.Command("osascript", "-e", appleScript(title, body, opts)).Run()
}
