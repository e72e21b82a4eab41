package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/size"

	"github.com/example/memeforge/internal/compose"
	"github.com/example/memeforge/internal/export"
	"github.com/example/memeforge/internal/gallery"
	"github.com/example/memeforge/internal/history"
	"github.com/example/memeforge/internal/imageload"
	"github.com/example/memeforge/internal/session"
	"github.com/example/memeforge/internal/theme"
)

// messageDuration matches the export confirmation labels.
const messageDuration = 2 * time.Second

const (
	placeholderText = "Ouvrez une image (Ctrl+O) ou collez-la (Ctrl+V)"
	promptOpen      = "Chemin de l'image :"
	unreadableImage = "Image illisible"
)

var captionLabels = [2]string{"Texte du haut", "Texte du bas"}

// Events delivered back to the loop from background work.
type (
	alertEvent   struct{ msg string }
	messageEvent struct{ msg string }
	repaintEvent struct{}
)

type confirmState struct {
	question string
	answer   func(yes bool)
}

type promptState struct {
	label  string
	value  string
	submit func(string)
}

// ui is the editor's state machine. Every method runs on the event loop.
type ui struct {
	sess     *session.Session
	exp      *export.Controller
	loader   *imageload.Loader
	labels   *export.Labels
	view     *gallery.View
	modal    *gallery.Modal
	pref     *theme.Preference
	palettes map[theme.Mode]*theme.Theme
	th       *theme.Theme
	mode     theme.Mode

	post func(any)    // deliver an event to the loop
	run  func(func()) // run blocking work off the loop

	lay          layout
	focus        int
	hover        int
	scroll       int
	alert        string
	confirm      *confirmState
	prompt       *promptState
	message      string
	messageUntil time.Time
	quit         bool

	buttons        []*ActionButton
	actions        map[string]func()
	keyboardAction map[KeyShortcut]string
}

func newUI(sess *session.Session, exp *export.Controller, loader *imageload.Loader, pref *theme.Preference, palettes map[theme.Mode]*theme.Theme) *ui {
	u := &ui{
		sess:     sess,
		exp:      exp,
		loader:   loader,
		pref:     pref,
		palettes: palettes,
		modal:    &gallery.Modal{},
		focus:    -1,
		hover:    -1,
		post:     func(any) {},
		run:      func(fn func()) { go fn() },
	}
	if u.palettes == nil {
		u.palettes = map[theme.Mode]*theme.Theme{}
	}
	u.applyTheme(theme.ModeLight)
	u.view = gallery.NewView(u.th, gallery.WithCardSize(galleryCard))
	u.view.Gap = galleryGap
	u.view.CaptionHeight = galleryCaption

	u.labels = exp.Feedback
	if u.labels == nil {
		u.labels = export.NewLabels()
		exp.Feedback = u.labels
	}
	u.labels.OnChange = func() { u.post(repaintEvent{}) }
	exp.Alerter = export.AlerterFunc(func(msg string) { u.post(alertEvent{msg}) })
	exp.OnHistoryChanged = func() { u.post(repaintEvent{}) }
	sess.OnRender = func() { u.post(repaintEvent{}) }
	loader.OnReady = sess.Load
	if pref != nil {
		pref.SetApplier(theme.ApplierFunc(u.applyTheme))
	}

	u.configure()
	u.resize(defaultWidth, defaultHeight)
	return u
}

func (u *ui) palette(m theme.Mode) *theme.Theme {
	if t, ok := u.palettes[m]; ok && t != nil {
		return t
	}
	return theme.ForMode(m)
}

func (u *ui) applyTheme(m theme.Mode) {
	u.mode = m
	u.th = u.palette(m)
}

// configure builds the buttons and keyboard map.
func (u *ui) configure() {
	u.actions = map[string]func(){}
	u.keyboardAction = map[KeyShortcut]string{}
	u.buttons = nil

	register := func(name string, keys KeyboardShortcuts, fn func()) {
		u.actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				u.keyboardAction[sc] = name
			}
		}
	}
	addButton := func(ab *ActionButton, fn func()) {
		ab.onActivate = fn
		register(ab.name, ab.keys, fn)
		u.buttons = append(u.buttons, ab)
	}

	addButton(&ActionButton{name: "open", label: func() string { return "Ouvrir une image" },
		keys: shortcutList{{Rune: 'o', Modifiers: key.ModControl}}}, u.openPrompt)
	addButton(&ActionButton{name: "smaller", half: true,
		label: func() string { return "A−" }}, func() { u.resizeFont(-fontSizeStep) })
	addButton(&ActionButton{name: "larger",
		label: func() string { return "A+" }}, func() { u.resizeFont(fontSizeStep) })
	addButton(&ActionButton{name: "fill", label: func() string {
		return "Texte : " + colorName(u.sess.Settings().Fill)
	}}, func() { u.sess.Update(func(s *compose.Settings) { s.Fill = nextColor(s.Fill) }) })
	addButton(&ActionButton{name: "stroke", label: func() string {
		return "Contour : " + colorName(u.sess.Settings().Stroke)
	}}, func() { u.sess.Update(func(s *compose.Settings) { s.Stroke = nextColor(s.Stroke) }) })
	addButton(&ActionButton{name: "font", label: u.fontLabel}, func() {
		families := u.sess.Fonts().Families()
		u.sess.Update(func(s *compose.Settings) { s.FontFamily = nextFamily(families, s.FontFamily) })
	})
	addButton(&ActionButton{name: export.ControlDownload, primary: true,
		label: func() string { return u.labels.Text(export.ControlDownload, "Télécharger") },
		success: func() bool {
			l, ok := u.labels.Get(export.ControlDownload)
			return ok && l.Success
		},
		keys: shortcutList{{Rune: 's', Modifiers: key.ModControl}}}, u.download)
	addButton(&ActionButton{name: export.ControlShare,
		label: func() string { return u.labels.Text(export.ControlShare, "Partager") },
		keys:  shortcutList{{Rune: 'e', Modifiers: key.ModControl}}}, u.share)
	addButton(&ActionButton{name: "clear", label: func() string { return "Effacer" }}, u.askClear)
	addButton(&ActionButton{name: "theme", label: func() string {
		if u.mode == theme.ModeDark {
			return "Thème : sombre"
		}
		return "Thème : clair"
	}, keys: shortcutList{{Rune: 't', Modifiers: key.ModControl}}}, u.toggleTheme)

	register("paste", shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, u.paste)
	register("quit", shortcutList{{Rune: 'q', Modifiers: key.ModControl}}, func() { u.quit = true })
}

func (u *ui) halfFlags() []bool {
	half := make([]bool, len(u.buttons))
	for i, ab := range u.buttons {
		half[i] = ab.half
	}
	return half
}

func (u *ui) resize(w, h int) {
	u.lay = computeLayout(w, h, u.halfFlags())
}

func (u *ui) fontLabel() string {
	s := u.sess.Settings()
	resolved := u.sess.Fonts().Resolve(s.FontFamily)
	if resolved != s.FontFamily {
		return fmt.Sprintf("Police : %s (%s)", s.FontFamily, resolved)
	}
	return "Police : " + s.FontFamily
}

func (u *ui) resizeFont(delta int) {
	u.sess.Update(func(s *compose.Settings) { s.FontSize = clampFontSize(s.FontSize + delta) })
}

func (u *ui) flash(msg string) {
	u.message = msg
	u.messageUntil = time.Now().Add(messageDuration)
	log.Print(msg)
	time.AfterFunc(messageDuration, func() { u.post(repaintEvent{}) })
}

func (u *ui) download() {
	u.run(func() {
		path, err := u.exp.Download(context.Background())
		switch {
		case errors.Is(err, export.ErrNoImage):
		case err != nil:
			log.Printf("download: %v", err)
			u.post(alertEvent{err.Error()})
		default:
			u.post(messageEvent{"Enregistré : " + path})
		}
	})
}

func (u *ui) share() {
	u.run(func() {
		if _, err := u.exp.Share(context.Background()); err != nil && !errors.Is(err, export.ErrNoImage) {
			log.Printf("share: %v", err)
		}
	})
}

func (u *ui) paste() {
	u.run(func() {
		if _, err := u.loader.LoadClipboard(context.Background()); err != nil {
			log.Printf("paste: %v", err)
			u.post(messageEvent{"Aucune image dans le presse-papiers"})
		}
	})
}

func (u *ui) openPrompt() {
	u.focus = -1
	u.prompt = &promptState{label: promptOpen, submit: func(path string) {
		path = strings.TrimSpace(path)
		if path == "" {
			return
		}
		u.run(func() {
			if _, err := u.loader.LoadFile(context.Background(), path); err != nil {
				log.Printf("open: %v", err)
				u.post(messageEvent{unreadableImage})
			}
		})
	}}
}

func (u *ui) askClear() {
	u.confirm = &confirmState{question: session.ConfirmClear, answer: func(yes bool) {
		if u.sess.Clear(func(string) bool { return yes }) {
			u.focus = -1
		}
	}}
}

func (u *ui) toggleTheme() {
	if u.pref == nil {
		u.applyTheme(u.mode.Toggle())
		return
	}
	if _, err := u.pref.Toggle(); err != nil {
		log.Printf("theme: %v", err)
	}
}

// entries returns the visible gallery slice and the index of its first entry.
func (u *ui) historyLen() int {
	if u.exp.History == nil {
		return 0
	}
	return u.exp.History.Len()
}

func (u *ui) entries() ([]history.ComposedMeme, int) {
	var all []history.ComposedMeme
	if u.exp.History != nil {
		all = u.exp.History.Entries()
	}
	start := u.scroll * galleryCols
	if start > len(all) {
		start = len(all)
	}
	return all[start:], start
}

// handle applies one event and reports whether the window needs a repaint.
func (u *ui) handle(e any) bool {
	switch e := e.(type) {
	case repaintEvent:
		return true
	case alertEvent:
		u.alert = e.msg
		return true
	case messageEvent:
		u.flash(e.msg)
		return true
	case size.Event:
		u.resize(e.WidthPx, e.HeightPx)
		return true
	case key.Event:
		return u.handleKey(e)
	case mouse.Event:
		return u.handleMouse(e)
	}
	return false
}

func (u *ui) handleKey(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	switch {
	case u.alert != "":
		if e.Code == key.CodeReturnEnter || e.Code == key.CodeEscape || e.Code == key.CodeSpacebar {
			u.alert = ""
			return true
		}
		return false
	case u.confirm != nil:
		switch {
		case e.Code == key.CodeReturnEnter || unicode.ToLower(e.Rune) == 'o':
			u.answer(true)
		case e.Code == key.CodeEscape || unicode.ToLower(e.Rune) == 'n':
			u.answer(false)
		default:
			return false
		}
		return true
	case u.prompt != nil:
		return u.editPrompt(e)
	case u.modal.IsOpen():
		return u.modal.HandleKey(e)
	}

	if e.Modifiers&key.ModControl != 0 {
		for _, ks := range shortcutsOf(e) {
			if name, ok := u.keyboardAction[ks]; ok {
				u.actions[name]()
				return true
			}
		}
		return false
	}

	if u.focus >= 0 {
		return u.editCaption(e)
	}
	if e.Code == key.CodeTab {
		u.focus = 0
		return true
	}
	return false
}

// shortcutsOf lists the lookups tried for e, most specific first. Some
// drivers report Ctrl+letter as the matching ASCII control character.
func shortcutsOf(e key.Event) []KeyShortcut {
	r := unicode.ToLower(e.Rune)
	if r >= 1 && r <= 26 {
		r = 'a' + r - 1
	}
	return []KeyShortcut{
		{Rune: r, Code: e.Code, Modifiers: e.Modifiers},
		{Rune: r, Modifiers: e.Modifiers},
		{Code: e.Code, Modifiers: e.Modifiers},
	}
}

func (u *ui) answer(yes bool) {
	c := u.confirm
	u.confirm = nil
	c.answer(yes)
}

func (u *ui) editPrompt(e key.Event) bool {
	p := u.prompt
	switch e.Code {
	case key.CodeEscape:
		u.prompt = nil
	case key.CodeReturnEnter:
		u.prompt = nil
		p.submit(p.value)
	case key.CodeDeleteBackspace:
		p.value = dropLastRune(p.value)
	default:
		if e.Rune <= 0 || unicode.IsControl(e.Rune) {
			return false
		}
		p.value += string(e.Rune)
	}
	return true
}

func (u *ui) editCaption(e key.Event) bool {
	switch e.Code {
	case key.CodeTab:
		u.focus = (u.focus + 1) % len(captionLabels)
		return true
	case key.CodeEscape, key.CodeReturnEnter:
		u.focus = -1
		return true
	case key.CodeDeleteBackspace:
		u.setCaption(dropLastRune(u.caption()))
		return true
	}
	if e.Rune <= 0 || unicode.IsControl(e.Rune) {
		return false
	}
	u.setCaption(u.caption() + string(e.Rune))
	return true
}

func (u *ui) caption() string {
	s := u.sess.Settings()
	if u.focus == 1 {
		return s.Bottom
	}
	return s.Top
}

func (u *ui) setCaption(v string) {
	focus := u.focus
	u.sess.Update(func(s *compose.Settings) {
		if focus == 1 {
			s.Bottom = v
		} else {
			s.Top = v
		}
	})
}

func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

func (u *ui) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress

	switch {
	case u.alert != "":
		if press {
			u.alert = ""
			return true
		}
		return false
	case u.confirm != nil:
		if !press {
			return false
		}
		yes, no := confirmButtons(u.lay.width, u.lay.height)
		switch {
		case p.In(yes):
			u.answer(true)
		case p.In(no):
			u.answer(false)
		default:
			return false
		}
		return true
	case u.prompt != nil:
		if press {
			u.prompt = nil
			return true
		}
		return false
	case u.modal.IsOpen():
		if press {
			return u.modal.HandleClick(p)
		}
		return false
	}

	if e.Direction == mouse.DirStep && p.In(u.lay.galleryList) {
		switch e.Button {
		case mouse.ButtonWheelUp:
			if u.scroll > 0 {
				u.scroll--
				return true
			}
		case mouse.ButtonWheelDown:
			if (u.scroll+1)*galleryCols < u.historyLen() {
				u.scroll++
				return true
			}
		}
		return false
	}

	if e.Direction == mouse.DirNone {
		hover := u.lay.buttonAt(p)
		if hover != u.hover {
			u.hover = hover
			return true
		}
		return false
	}
	if !press {
		return false
	}

	if i := u.lay.buttonAt(p); i >= 0 {
		u.buttons[i].Activate()
		return true
	}
	if i := u.lay.fieldAt(p); i >= 0 {
		u.focus = i
		return true
	}
	if p.In(u.lay.galleryList) {
		idx := u.view.HitTest(p)
		if idx < 0 {
			return false
		}
		entries, start := u.entries()
		if idx >= len(entries) {
			return false
		}
		if err := u.modal.Open(start+idx, entries[idx]); err != nil {
			log.Printf("gallery: %v", err)
			return false
		}
		return true
	}
	if u.focus >= 0 {
		u.focus = -1
		return true
	}
	return false
}

// confirmButtons places the Oui / Non buttons of the confirmation dialog.
func confirmButtons(width, height int) (yes, no image.Rectangle) {
	box := dialogRect(width, height)
	y := box.Max.Y - padding - buttonHeight
	mid := (box.Min.X + box.Max.X) / 2
	yes = image.Rect(mid-padding/2-100, y, mid-padding/2, y+buttonHeight)
	no = image.Rect(mid+padding/2, y, mid+padding/2+100, y+buttonHeight)
	return yes, no
}

func dialogRect(width, height int) image.Rectangle {
	w, h := 460, 150
	x := (width - w) / 2
	y := (height - h) / 2
	return image.Rect(x, y, x+w, y+h)
}
