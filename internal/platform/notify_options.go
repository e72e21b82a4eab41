// Package platform sends desktop notifications through the host's native
// notification service.
package platform

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupported is returned by Notify on hosts without a notification
// service.
var ErrUnsupported = errors.New("desktop notifications are not supported on this platform")

// DefaultAppName identifies memeforge to notification daemons.
const DefaultAppName = "memeforge"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// AppName overrides DefaultAppName.
	AppName string
	// Expire is how long the notification stays up. Zero uses the host default.
	Expire time.Duration
}

func (o Options) appName() string {
	if o.AppName != "" {
		return o.AppName
	}
	return DefaultAppName
}

// expireMillis maps Expire onto the freedesktop convention where -1 means
// "server default".
func (o Options) expireMillis() int32 {
	if o.Expire <= 0 {
		return -1
	}
	return int32(o.Expire / time.Millisecond)
}

// appleScript is the osascript program that posts a Notification Center
// banner, with the app name as subtitle.
func appleScript(title, body string, o Options) string {
	return fmt.Sprintf("display notification %q with title %q subtitle %q", body, title, o.appName())
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// toastScript is the PowerShell program that shows a WinRT toast. With an
// icon it switches to the image template and points it at IconPath.
func toastScript(title, body string, o Options) string {
	tmpl := "ToastText02"
	icon := strings.TrimSpace(o.IconPath)
	if icon != "" {
		tmpl = "ToastImageAndText02"
	}
	lines := []string{
		`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=Windows Runtime] > $null`,
		fmt.Sprintf(`$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::%s)`, tmpl),
		`$texts = $template.GetElementsByTagName("text")`,
		fmt.Sprintf(`$texts.Item(0).AppendChild($template.CreateTextNode(%s)) > $null`, psQuote(title)),
		fmt.Sprintf(`$texts.Item(1).AppendChild($template.CreateTextNode(%s)) > $null`, psQuote(body)),
	}
	if icon != "" {
		lines = append(lines, fmt.Sprintf(`$template.GetElementsByTagName("image").Item(0).SetAttribute("src", %s)`, psQuote(icon)))
	}
	lines = append(lines,
		`$toast = [Windows.UI.Notifications.ToastNotification]::new($template)`,
		fmt.Sprintf(`[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s).Show($toast)`, psQuote(o.appName())),
	)
	return strings.Join(lines, "; ")
}
