package editor

import "image"

const (
	sidebarWidth   = 300
	galleryCols    = 2
	statusHeight   = 24
	padding        = 12
	fieldHeight    = 48
	buttonHeight   = 32
	buttonGap      = 8
	titleHeight    = 40
	defaultWidth   = 1280
	defaultHeight  = 860
	galleryCard    = 120
	galleryGap     = 12
	galleryCaption = 28
)

// galleryWidth fits galleryCols cards with gaps on both sides.
const galleryWidth = galleryGap + galleryCols*(galleryCard+galleryGap)

// layout holds every hit region of one window size.
type layout struct {
	width, height int
	sidebar       image.Rectangle
	canvas        image.Rectangle
	gallery       image.Rectangle
	galleryList   image.Rectangle
	status        image.Rectangle
	fields        [2]image.Rectangle
	sizeLabel     image.Rectangle
	buttons       []image.Rectangle
}

// computeLayout places the sidebar on the left, the gallery on the right and
// the canvas in between. half marks buttons that share a row with the next.
func computeLayout(width, height int, half []bool) layout {
	l := layout{width: width, height: height}
	body := height - statusHeight
	l.sidebar = image.Rect(0, 0, sidebarWidth, body)
	l.gallery = image.Rect(width-galleryWidth, 0, width, body)
	l.galleryList = image.Rect(l.gallery.Min.X, titleHeight, l.gallery.Max.X, body)
	l.canvas = image.Rect(sidebarWidth, 0, width-galleryWidth, body)
	if l.canvas.Dx() < 0 {
		l.canvas.Max.X = l.canvas.Min.X
	}
	l.status = image.Rect(0, body, width, height)

	x0, x1 := padding, sidebarWidth-padding
	y := titleHeight
	for i := range l.fields {
		l.fields[i] = image.Rect(x0, y, x1, y+fieldHeight)
		y += fieldHeight + buttonGap
	}
	l.sizeLabel = image.Rect(x0, y, x1, y+20)
	y += 20 + buttonGap

	l.buttons = make([]image.Rectangle, len(half))
	mid := (x0 + x1) / 2
	for i := 0; i < len(half); i++ {
		if half[i] && i+1 < len(half) {
			l.buttons[i] = image.Rect(x0, y, mid-buttonGap/2, y+buttonHeight)
			l.buttons[i+1] = image.Rect(mid+buttonGap/2, y, x1, y+buttonHeight)
			i++
		} else {
			l.buttons[i] = image.Rect(x0, y, x1, y+buttonHeight)
		}
		y += buttonHeight + buttonGap
	}
	return l
}

// preview returns where a surface of w x h is shown inside the canvas area:
// scaled down to fit with a margin, never enlarged, centred.
func (l layout) preview(w, h int, fit func(w, h, maxW, maxH int) (int, int)) image.Rectangle {
	area := l.canvas.Inset(padding)
	if area.Empty() || w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	pw, ph := fit(w, h, area.Dx(), area.Dy())
	x := area.Min.X + (area.Dx()-pw)/2
	y := area.Min.Y + (area.Dy()-ph)/2
	return image.Rect(x, y, x+pw, y+ph)
}

// buttonAt returns the index of the button under p, or -1.
func (l layout) buttonAt(p image.Point) int {
	for i, r := range l.buttons {
		if p.In(r) {
			return i
		}
	}
	return -1
}

// fieldAt returns the caption field under p, or -1.
func (l layout) fieldAt(p image.Point) int {
	for i, r := range l.fields {
		if p.In(r) {
			return i
		}
	}
	return -1
}
