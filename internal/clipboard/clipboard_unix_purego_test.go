//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"bytes"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func testAtoms() atomSet {
	return atomSet{clipboard: 100, targets: 101, utf8: 102, textPlain: 103, png: 104, transfer: 105}
}

func TestConvertListsOfferedTargets(t *testing.T) {
	a := testAtoms()
	text := []byte("data:image/png;base64,AAAA")
	current := offer{a.textPlain: text, a.utf8: text, xproto.AtomString: text}

	typ, format, payload, ok := a.convert(a.targets, current)
	if !ok || typ != xproto.AtomAtom || format != 32 {
		t.Fatalf("convert TARGETS = %v %d %v", typ, format, ok)
	}
	want := []xproto.Atom{a.targets, xproto.AtomString, a.utf8, a.textPlain}
	if len(payload) != 4*len(want) {
		t.Fatalf("payload has %d bytes, want %d", len(payload), 4*len(want))
	}
	for i, atom := range want {
		if got := xproto.Atom(xgb.Get32(payload[4*i:])); got != atom {
			t.Fatalf("target %d = %d, want %d", i, got, atom)
		}
	}
}

func TestConvertServesPayloads(t *testing.T) {
	a := testAtoms()
	img := []byte{0x89, 'P', 'N', 'G'}
	typ, format, payload, ok := a.convert(a.png, offer{a.png: img})
	if !ok || typ != a.png || format != 8 || !bytes.Equal(payload, img) {
		t.Fatalf("convert png = %v %d %q %v", typ, format, payload, ok)
	}
	if _, _, _, ok := a.convert(a.utf8, offer{a.png: img}); ok {
		t.Fatal("text served while only an image is offered")
	}
	typ, _, _, ok = a.convert(xproto.AtomString, offer{xproto.AtomString: []byte("x")})
	if !ok || typ != a.utf8 {
		t.Fatalf("STRING answered as %v %v", typ, ok)
	}
}
