package platform

import (
	"strings"
	"testing"
	"time"
)

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if o.appName() != DefaultAppName {
		t.Fatalf("appName = %q", o.appName())
	}
	if o.expireMillis() != -1 {
		t.Fatalf("expireMillis = %d", o.expireMillis())
	}
	o = Options{AppName: "x", Expire: 2 * time.Second}
	if o.appName() != "x" || o.expireMillis() != 2000 {
		t.Fatalf("got %q %d", o.appName(), o.expireMillis())
	}
}

func TestAppleScriptQuotes(t *testing.T) {
	got := appleScript(`Mème "1"`, "Enregistré", Options{})
	want := `display notification "Enregistré" with title "Mème \"1\"" subtitle "memeforge"`
	if got != want {
		t.Fatalf("appleScript = %s", got)
	}
}

func TestToastScript(t *testing.T) {
	plain := toastScript("memeforge", "l'image", Options{})
	if !strings.Contains(plain, "ToastText02") || strings.Contains(plain, `"image"`) {
		t.Fatalf("plain toast = %s", plain)
	}
	if !strings.Contains(plain, `CreateTextNode('l''image')`) {
		t.Fatalf("body not quoted: %s", plain)
	}
	icon := toastScript("memeforge", "x", Options{IconPath: `C:\m.png`, AppName: "mf"})
	if !strings.Contains(icon, "ToastImageAndText02") || !strings.Contains(icon, `SetAttribute("src", 'C:\m.png')`) {
		t.Fatalf("icon toast = %s", icon)
	}
	if !strings.HasSuffix(icon, `CreateToastNotifier('mf').Show($toast)`) {
		t.Fatalf("notifier app = %s", icon)
	}
}
