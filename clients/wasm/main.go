//go:build js && wasm

// Command wasm runs the meme editor core in a browser page. The page
// provides a canvas with id "memeCanvas", buttons with ids "downloadBtn" and
// "shareBtn", and calls the exported go* functions from its event handlers.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"strconv"
	"syscall/js"

	"github.com/example/memeforge/internal/compose"
	"github.com/example/memeforge/internal/export"
	"github.com/example/memeforge/internal/history"
	"github.com/example/memeforge/internal/imageload"
	"github.com/example/memeforge/internal/session"
	"github.com/example/memeforge/internal/storage"
	"github.com/example/memeforge/internal/theme"
)

const successBackground = "#10b981"

var (
	document = js.Global().Get("document")
	window   = js.Global()
)

// localStore is a storage.KV over window.localStorage.
type localStore struct{ ls js.Value }

func (s localStore) Get(key string) (v string, err error) {
	defer recoverJS(&err)
	item := s.ls.Call("getItem", key)
	if item.IsNull() || item.IsUndefined() {
		return "", storage.ErrNotFound
	}
	return item.String(), nil
}

func (s localStore) Set(key, value string) (err error) {
	defer recoverJS(&err)
	s.ls.Call("setItem", key, value)
	return nil
}

// recoverJS turns a thrown JS exception into err.
func recoverJS(err *error) {
	if r := recover(); r != nil {
		if jerr, ok := r.(js.Error); ok {
			*err = jerr
			return
		}
		*err = fmt.Errorf("%v", r)
	}
}

// await blocks until p settles. It must not run on the JS event loop.
func await(p js.Value) (js.Value, error) {
	type result struct {
		v   js.Value
		err error
	}
	ch := make(chan result, 1)
	var then, catch js.Func
	then = js.FuncOf(func(_ js.Value, args []js.Value) any {
		ch <- result{v: arg0(args)}
		return nil
	})
	catch = js.FuncOf(func(_ js.Value, args []js.Value) any {
		ch <- result{err: js.Error{Value: arg0(args)}}
		return nil
	})
	defer then.Release()
	defer catch.Release()
	p.Call("then", then).Call("catch", catch)
	r := <-ch
	return r.v, r.err
}

func arg0(args []js.Value) js.Value {
	if len(args) == 0 {
		return js.Undefined()
	}
	return args[0]
}

func uint8Array(data []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)
	return arr
}

func blob(data []byte, mime string) js.Value {
	opts := map[string]any{"type": mime}
	return js.Global().Get("Blob").New([]any{uint8Array(data)}, opts)
}

// webShare is a ShareSink over navigator.share.
type webShare struct{}

func (webShare) file(f export.File) js.Value {
	opts := map[string]any{"type": f.Type}
	return js.Global().Get("File").New([]any{uint8Array(f.Data)}, f.Name, opts)
}

func (w webShare) CanShare(f export.File) bool {
	nav := window.Get("navigator")
	if nav.Get("share").IsUndefined() || nav.Get("canShare").IsUndefined() {
		return false
	}
	data := map[string]any{"files": []any{w.file(f)}}
	return nav.Call("canShare", data).Truthy()
}

func (w webShare) Share(ctx context.Context, req export.ShareRequest) error {
	files := make([]any, len(req.Files))
	for i, f := range req.Files {
		files[i] = w.file(f)
	}
	data := map[string]any{"files": files, "title": req.Title, "text": req.Text}
	_, err := await(window.Get("navigator").Call("share", data))
	var jerr js.Error
	if errors.As(err, &jerr) && jerr.Value.Get("name").String() == "AbortError" {
		return export.ErrShareCancelled
	}
	return err
}

// webClipboard is a ClipboardSink over navigator.clipboard.write.
type webClipboard struct{}

func (webClipboard) WriteImage(img image.Image) error {
	clip := window.Get("navigator").Get("clipboard")
	if clip.IsUndefined() || clip.Get("write").IsUndefined() || window.Get("ClipboardItem").IsUndefined() {
		return errors.New("clipboard write is not supported")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	item := window.Get("ClipboardItem").New(map[string]any{"image/png": blob(buf.Bytes(), "image/png")})
	_, err := await(clip.Call("write", []any{item}))
	return err
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// anchorDownloader saves through a temporary <a download> element.
type anchorDownloader struct{}

func (anchorDownloader) Save(ctx context.Context, name string, data []byte) (string, error) {
	url := js.Global().Get("URL").Call("createObjectURL", blob(data, "image/png"))
	defer js.Global().Get("URL").Call("revokeObjectURL", url)
	a := document.Call("createElement", "a")
	a.Set("href", url)
	a.Set("download", name)
	a.Call("click")
	return name, nil
}

type app struct {
	sess   *session.Session
	hist   *history.Store
	exp    *export.Controller
	loader *imageload.Loader
	pref   *theme.Preference
	labels *export.Labels
}

func newApp() *app {
	var kv storage.KV = localStore{ls: window.Get("localStorage")}
	if window.Get("localStorage").IsUndefined() {
		kv = storage.NewMemoryStore()
	}
	a := &app{hist: history.New(kv), labels: export.NewLabels()}
	a.hist.Load()
	a.pref = theme.NewPreference(kv, theme.ApplierFunc(func(m theme.Mode) {
		document.Get("documentElement").Call("setAttribute", "data-theme", m.String())
	}))
	a.sess = session.New(compose.New(nil), session.WithHistory(a.hist), session.WithTheme(a.pref))
	a.sess.OnRender = a.paint
	a.loader = imageload.New(a.sess.Load)
	a.exp = export.New(a.sess, a.hist,
		export.WithDownloader(anchorDownloader{}),
		export.WithShareSink(webShare{}),
		export.WithClipboard(webClipboard{}),
		export.WithAlerter(export.AlerterFunc(func(msg string) { window.Call("alert", msg) })),
		export.WithFeedback(a.labels),
	)
	a.labels.OnChange = a.updateButtons
	return a
}

// paint copies the surface into the page canvas.
func (a *app) paint() {
	canvas := document.Call("getElementById", "memeCanvas")
	if canvas.IsNull() {
		return
	}
	w, h := a.sess.Size()
	canvas.Set("width", w)
	canvas.Set("height", h)
	ctx := canvas.Call("getContext", "2d")
	img := a.sess.Snapshot()
	if img == nil {
		ctx.Call("clearRect", 0, 0, w, h)
		return
	}
	rgba := toRGBA(img)
	data := js.Global().Get("Uint8ClampedArray").New(len(rgba.Pix))
	js.CopyBytesToJS(data, rgba.Pix)
	ctx.Call("putImageData", js.Global().Get("ImageData").New(data, w, h), 0, 0)
}

func (a *app) updateButtons() {
	for control, def := range map[string]string{
		export.ControlDownload: "Télécharger",
		export.ControlShare:    "Partager",
	} {
		el := document.Call("getElementById", control+"Btn")
		if el.IsNull() {
			continue
		}
		el.Set("textContent", a.labels.Text(control, def))
		bg := ""
		if l, ok := a.labels.Get(control); ok && l.Success {
			bg = successBackground
		}
		el.Get("style").Set("background", bg)
	}
}

func (a *app) setCaption(field, value string) error {
	var perr error
	a.sess.Update(func(s *compose.Settings) {
		switch field {
		case "top":
			s.Top = value
		case "bottom":
			s.Bottom = value
		case "font":
			s.FontFamily = value
		case "fontSize":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				perr = fmt.Errorf("font size %q", value)
				return
			}
			s.FontSize = n
		case "fill", "stroke":
			c, err := theme.ParseColor(value)
			if err != nil {
				perr = err
				return
			}
			if field == "fill" {
				s.Fill = c
			} else {
				s.Stroke = c
			}
		default:
			perr = fmt.Errorf("unknown caption field %q", field)
		}
	})
	return perr
}

func (a *app) historyValue() js.Value {
	entries := a.hist.Entries()
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = map[string]any{"data": e.Data, "date": e.Date}
	}
	return js.ValueOf(out)
}

// async runs fn off the event loop, as exported functions must return
// before any promise can settle.
func async(fn func()) {
	go fn()
}

func (a *app) register() {
	funcs := map[string]func(args []js.Value) any{
		"goLoadImage": func(args []js.Value) any {
			dataURL := arg0(args).String()
			async(func() {
				if _, err := a.loader.LoadDataURL(context.Background(), dataURL); err != nil {
					log.Printf("load image: %v", err)
				}
			})
			return nil
		},
		"goSetCaption": func(args []js.Value) any {
			if len(args) < 2 {
				return "goSetCaption(field, value)"
			}
			if err := a.setCaption(args[0].String(), args[1].String()); err != nil {
				log.Printf("caption: %v", err)
				return err.Error()
			}
			return nil
		},
		"goDownload": func([]js.Value) any {
			async(func() {
				if _, err := a.exp.Download(context.Background()); err != nil && !errors.Is(err, export.ErrNoImage) {
					log.Printf("download: %v", err)
				}
			})
			return nil
		},
		"goShare": func([]js.Value) any {
			async(func() {
				if _, err := a.exp.Share(context.Background()); err != nil && !errors.Is(err, export.ErrNoImage) {
					log.Printf("share: %v", err)
				}
			})
			return nil
		},
		"goClear": func([]js.Value) any {
			return a.sess.Clear(func(q string) bool { return window.Call("confirm", q).Truthy() })
		},
		"goToggleTheme": func([]js.Value) any {
			m, err := a.pref.Toggle()
			if err != nil {
				log.Printf("theme: %v", err)
			}
			return m.String()
		},
		"goHistory": func([]js.Value) any {
			return a.historyValue()
		},
	}
	for name, fn := range funcs {
		js.Global().Set(name, js.FuncOf(func(_ js.Value, args []js.Value) any { return fn(args) }))
	}
}

func main() {
	a := newApp()
	a.pref.Load()
	a.register()
	a.paint()
	log.Print("memeforge ready")
	select {}
}
