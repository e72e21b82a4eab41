package editor

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/example/memeforge/internal/gallery"
	"github.com/example/memeforge/internal/history"
	"github.com/example/memeforge/internal/render"
	"github.com/example/memeforge/internal/scale"
	"github.com/example/memeforge/internal/theme"
)

// paintState is an immutable snapshot of everything one frame draws.
type paintState struct {
	lay      layout
	th       *theme.Theme
	buttons  []*ActionButton
	hover    int
	focus    int
	captions [2]string
	fontSize int
	image    image.Image
	entries  []history.ComposedMeme
	total    int
	view     *gallery.View
	modal    *gallery.Modal

	alert        string
	confirm      string
	promptLabel  string
	promptValue  string
	prompting    bool
	message      string
	messageUntil time.Time
}

// snapshot captures the state for the paint goroutine.
func (u *ui) snapshot() paintState {
	s := u.sess.Settings()
	st := paintState{
		lay:          u.lay,
		th:           u.th,
		hover:        u.hover,
		focus:        u.focus,
		captions:     [2]string{s.Top, s.Bottom},
		fontSize:     s.FontSize,
		image:        u.sess.Snapshot(),
		view:         u.view,
		modal:        u.modal,
		alert:        u.alert,
		message:      u.message,
		messageUntil: u.messageUntil,
	}
	st.entries, _ = u.entries()
	if u.exp.History != nil {
		st.total = u.exp.History.Len()
	}
	st.buttons = make([]*ActionButton, len(u.buttons))
	for i, ab := range u.buttons {
		var r image.Rectangle
		if i < len(u.lay.buttons) {
			r = u.lay.buttons[i]
		}
		st.buttons[i] = ab.view(u.th, r)
	}
	if u.confirm != nil {
		st.confirm = u.confirm.question
	}
	if u.prompt != nil {
		st.prompting = true
		st.promptLabel, st.promptValue = u.prompt.label, u.prompt.value
	}
	return st
}

// painter keeps the rendering caches owned by the paint goroutine.
type painter struct {
	buttons []*CacheButton
}

func (p *painter) button(i int, ab *ActionButton) *CacheButton {
	for len(p.buttons) <= i {
		p.buttons = append(p.buttons, &CacheButton{})
	}
	cb := p.buttons[i]
	cb.Button = ab
	return cb
}

// renderFrame draws st into dst. It returns false when ctx was cancelled
// before the frame completed.
func (p *painter) renderFrame(ctx context.Context, dst *image.RGBA, st paintState) bool {
	th := st.th
	if th == nil {
		th = theme.Default()
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)

	p.drawCanvas(dst, st, th)
	if ctx.Err() != nil {
		return false
	}

	p.drawSidebar(dst, st, th)
	if ctx.Err() != nil {
		return false
	}

	draw.Draw(dst, st.lay.gallery, image.NewUniform(th.Panel), image.Point{}, draw.Src)
	drawText(dst, st.lay.gallery.Min.X+padding, padding, fmt.Sprintf("Historique (%d)", st.total), th.Foreground, titleFace)
	if st.view != nil {
		st.view.Theme = th
		st.view.Render(dst, st.lay.galleryList, st.entries)
	}
	if ctx.Err() != nil {
		return false
	}

	draw.Draw(dst, st.lay.status, image.NewUniform(th.Panel), image.Point{}, draw.Src)
	drawText(dst, st.lay.status.Min.X+padding, st.lay.status.Min.Y+4,
		"Ctrl+O ouvrir · Ctrl+V coller · Ctrl+S télécharger · Ctrl+E partager · Ctrl+T thème · Tab légendes · Ctrl+Q quitter",
		th.Muted, uiFace)

	if st.modal != nil {
		st.modal.Render(dst, dst.Bounds(), th)
	}
	if ctx.Err() != nil {
		return false
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawBanner(dst, st.message, th)
	}
	switch {
	case st.prompting:
		drawDialog(dst, th, st.promptLabel, func(box image.Rectangle) {
			field := image.Rect(box.Min.X+padding, box.Min.Y+40, box.Max.X-padding, box.Min.Y+40+fieldHeight)
			drawField(dst, field, "Entrée pour valider, Échap pour annuler", st.promptValue, true, th)
		})
	case st.confirm != "":
		drawDialog(dst, th, st.confirm, func(box image.Rectangle) {
			yes, no := confirmButtons(st.lay.width, st.lay.height)
			(&ActionButton{text: "Oui", primary: true, th: th, rect: yes}).Draw(dst, StateDefault)
			(&ActionButton{text: "Non", th: th, rect: no}).Draw(dst, StateDefault)
		})
	case st.alert != "":
		drawDialog(dst, th, st.alert, func(box image.Rectangle) {
			drawCentered(dst, image.Rect(box.Min.X, box.Max.Y-padding-buttonHeight, box.Max.X, box.Max.Y-padding),
				"Entrée pour fermer", th.Muted, uiFace)
		})
	}
	return ctx.Err() == nil
}

func (p *painter) drawCanvas(dst *image.RGBA, st paintState, th *theme.Theme) {
	if st.image == nil {
		drawCheckerboard(dst, st.lay.canvas.Inset(padding), 16, th.CheckerLight, th.CheckerDark)
		drawCentered(dst, st.lay.canvas, placeholderText, th.Muted, uiFace)
		return
	}
	b := st.image.Bounds()
	r := st.lay.preview(b.Dx(), b.Dy(), scale.Fit)
	if r.Empty() {
		return
	}
	render.DropShadow(dst, r, render.PreviewShadow())
	drawCheckerboard(dst, r, 8, th.CheckerLight, th.CheckerDark)
	xdraw.ApproxBiLinear.Scale(dst, r, st.image, b, draw.Over, nil)
	drawRect(dst, r.Inset(-1), th.PanelBorder, 1)
}

func (p *painter) drawSidebar(dst *image.RGBA, st paintState, th *theme.Theme) {
	draw.Draw(dst, st.lay.sidebar, image.NewUniform(th.Panel), image.Point{}, draw.Src)
	drawRect(dst, st.lay.sidebar, th.PanelBorder, 1)
	drawText(dst, padding, padding, "memeforge", th.Foreground, titleFace)

	for i, r := range st.lay.fields {
		drawField(dst, r, captionLabels[i], st.captions[i], st.focus == i, th)
	}
	drawText(dst, st.lay.sizeLabel.Min.X, st.lay.sizeLabel.Min.Y,
		fmt.Sprintf("Taille : %d px", st.fontSize), th.Foreground, uiFace)

	for i, ab := range st.buttons {
		if ab.rect.Empty() {
			continue
		}
		state := StateDefault
		if i == st.hover {
			state = StateHover
		}
		p.button(i, ab).Draw(dst, state)
	}
}

func measure(s string, face font.Face) int {
	return (&font.Drawer{Face: face}).MeasureString(s).Ceil()
}

func drawBanner(dst *image.RGBA, msg string, th *theme.Theme) {
	b := dst.Bounds()
	w := measure(msg, messageFace) + 32
	h := messageFace.Metrics().Height.Ceil() + 24
	x := b.Min.X + (b.Dx()-w)/2
	r := image.Rect(x, b.Max.Y-statusHeight-h-padding, x+w, b.Max.Y-statusHeight-padding)
	bg := th.Panel
	bg.A = 235
	draw.Draw(dst, r, image.NewUniform(bg), image.Point{}, draw.Over)
	drawRect(dst, r, th.PanelBorder, 2)
	drawCentered(dst, r, msg, th.Foreground, messageFace)
}

// drawDialog dims the window and draws a centred box with a title; body
// draws the rest of the content.
func drawDialog(dst *image.RGBA, th *theme.Theme, title string, body func(box image.Rectangle)) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(th.Overlay), image.Point{}, draw.Over)
	box := dialogRect(b.Dx(), b.Dy())
	draw.Draw(dst, box, image.NewUniform(th.Panel), image.Point{}, draw.Src)
	drawRect(dst, box, th.PanelBorder, 1)
	drawCentered(dst, image.Rect(box.Min.X, box.Min.Y+padding, box.Max.X, box.Min.Y+padding+24), title, th.Foreground, uiFace)
	body(box)
}

// drawFrame renders st into a new buffer and publishes it.
func (p *painter) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	size := image.Point{st.lay.width, st.lay.height}
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	b, err := s.NewBuffer(size)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	if !p.renderFrame(ctx, b.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
