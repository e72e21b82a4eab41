//go:build windows

package platform

import "os/exec"

// Notify shows a toast through PowerShell's WinRT bridge.
func Notify(title, body string, opts Options) error {
	return exec.Command("powershell.exe", "-NoProfile", "-Command", toastScript(title, body, opts)).Run()
}
