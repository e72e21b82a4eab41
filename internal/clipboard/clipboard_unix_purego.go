//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"image"
	"os"
	"slices"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	initOnce sync.Once
	initErr  error
	owner    *selectionOwner
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" {
			initErr = fmt.Errorf("%w: DISPLAY is unset", ErrUnavailable)
			return
		}
		o, err := newSelectionOwner()
		if err != nil {
			initErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
			return
		}
		owner = o
	})
	return initErr
}

// WriteImage publishes img as PNG.
func (System) WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	data, err := encodePNG(img)
	if err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	if err := owner.offer(offer{owner.atoms.png: data}); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	return nil
}

// ReadImage returns the clipboard image. When the clipboard only holds an
// image data URL as text, that is decoded instead.
func (System) ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, fmt.Errorf("paste image: %w", err)
	}
	if data, err := owner.fetch(owner.atoms.png); err == nil && len(data) > 0 {
		return decodePNG(data)
	}
	for _, target := range []xproto.Atom{owner.atoms.utf8, xproto.AtomString} {
		if data, err := owner.fetch(target); err == nil && len(data) > 0 {
			return imageFromText(string(data))
		}
	}
	return nil, fmt.Errorf("paste image: %w", errNoImage)
}

// WriteDataURL publishes a data URL as plain text, for targets that cannot
// accept images.
func (System) WriteDataURL(dataURL string) error {
	if err := ensureInit(); err != nil {
		return fmt.Errorf("copy data url: %w", err)
	}
	text := []byte(dataURL)
	o := offer{owner.atoms.utf8: text, xproto.AtomString: text, owner.atoms.textPlain: text}
	if err := owner.offer(o); err != nil {
		return fmt.Errorf("copy data url: %w", err)
	}
	return nil
}

// offer maps each selection target we answer for to its payload.
type offer map[xproto.Atom][]byte

type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	transfer  xproto.Atom
}

// selectionOwner keeps a hidden window that owns CLIPBOARD while memeforge
// has something copied, and serves conversion requests from other clients.
type selectionOwner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atomSet

	mu      sync.RWMutex
	current offer
}

func newSelectionOwner() (*selectionOwner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	mask := []uint32{xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify}
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, mask).Check()
	if err != nil {
		conn.Close()
		return nil, err
	}
	atoms, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return nil, err
	}
	o := &selectionOwner{conn: conn, window: window, atoms: atoms}
	go o.serve()
	return o, nil
}

func internAtoms(conn *xgb.Conn) (atomSet, error) {
	intern := func(name string) (xproto.Atom, error) {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return 0, fmt.Errorf("intern %s: %w", name, err)
		}
		return reply.Atom, nil
	}
	var (
		a   atomSet
		err error
	)
	for _, f := range []struct {
		dst  *xproto.Atom
		name string
	}{
		{&a.clipboard, "CLIPBOARD"},
		{&a.targets, "TARGETS"},
		{&a.utf8, "UTF8_STRING"},
		{&a.textPlain, "text/plain;charset=utf-8"},
		{&a.png, "image/png"},
		{&a.transfer, "MEMEFORGE_CLIPBOARD"},
	} {
		if *f.dst, err = intern(f.name); err != nil {
			return atomSet{}, err
		}
	}
	return a, nil
}

func (o *selectionOwner) offer(next offer) error {
	o.mu.Lock()
	o.current = next
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (o *selectionOwner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.current = nil
			o.mu.Unlock()
		}
	}
}

func (o *selectionOwner) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}
	o.mu.RLock()
	current := o.current
	o.mu.RUnlock()

	typ, format, payload, ok := o.atoms.convert(e.Target, current)
	if ok {
		units := uint32(len(payload) * 8 / int(format))
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property, typ, format, units, payload)
	} else {
		property = xproto.AtomNone
	}
	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(o.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

// convert answers a request for target from the current offer. TARGETS
// lists every offered target in ascending atom order.
func (a atomSet) convert(target xproto.Atom, current offer) (typ xproto.Atom, format byte, payload []byte, ok bool) {
	if target == a.targets {
		list := []xproto.Atom{a.targets}
		for t, data := range current {
			if len(data) > 0 {
				list = append(list, t)
			}
		}
		slices.Sort(list[1:])
		buf := make([]byte, 4*len(list))
		for i, t := range list {
			xgb.Put32(buf[4*i:], uint32(t))
		}
		return xproto.AtomAtom, 32, buf, true
	}
	data := current[target]
	if len(data) == 0 {
		return 0, 0, nil, false
	}
	if target == a.png {
		return a.png, 8, data, true
	}
	return a.utf8, 8, data, true
}

// fetch asks the current CLIPBOARD owner for target over a short-lived
// connection, so it never competes with serve for events.
func (o *selectionOwner) fetch(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	err = xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	if err := xproto.ConvertSelectionChecked(conn, window, o.atoms.clipboard, target, o.atoms.transfer, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		e, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok || e.Requestor != window {
			continue
		}
		if e.Property == xproto.AtomNone {
			return nil, fmt.Errorf("clipboard has no %d target", target)
		}
		reply, perr := xproto.GetProperty(conn, true, window, e.Property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		return reply.Value, nil
	}
}
