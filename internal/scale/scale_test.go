package scale

import "testing"

func TestFitConcreteCases(t *testing.T) {
	cases := []struct {
		w, h         int
		wantW, wantH int
	}{
		{1600, 1200, 800, 600},
		{1000, 2000, 400, 800},
		{640, 480, 640, 480},
		{800, 800, 800, 800},
		{900, 300, 800, 266},
	}
	for _, c := range cases {
		gotW, gotH := Default(c.w, c.h)
		if gotW != c.wantW || gotH != c.wantH {
			t.Errorf("Default(%d, %d) = (%d, %d), want (%d, %d)", c.w, c.h, gotW, gotH, c.wantW, c.wantH)
		}
	}
}

func TestFitStaysWithinBoundsAndKeepsRatio(t *testing.T) {
	for w := 10; w <= 4000; w += 137 {
		for h := 10; h <= 4000; h += 211 {
			gotW, gotH := Default(w, h)
			if gotW > MaxWidth || gotH > MaxHeight {
				t.Fatalf("Default(%d, %d) = (%d, %d) exceeds bounds", w, h, gotW, gotH)
			}
			// Each side loses less than one pixel to truncation, so the cross
			// products differ by less than the larger natural side.
			diff := gotW*h - gotH*w
			if diff < 0 {
				diff = -diff
			}
			if diff > w+h {
				t.Fatalf("Default(%d, %d) = (%d, %d) does not keep the aspect ratio", w, h, gotW, gotH)
			}
		}
	}
}

func TestFitNeverUpscales(t *testing.T) {
	gotW, gotH := Fit(10, 20, 800, 800)
	if gotW != 10 || gotH != 20 {
		t.Fatalf("Fit(10, 20) = (%d, %d), want unchanged", gotW, gotH)
	}
}

func TestFitRejectsEmptyInput(t *testing.T) {
	if w, h := Default(0, 100); w != 0 || h != 0 {
		t.Fatalf("Default(0, 100) = (%d, %d), want (0, 0)", w, h)
	}
}

func TestFitKeepsSlivers(t *testing.T) {
	for _, c := range []struct{ w, h, wantW, wantH int }{
		{1, 10000, 1, 800},
		{10000, 1, 800, 1},
		{3, 5000, 1, 800},
	} {
		if w, h := Default(c.w, c.h); w != c.wantW || h != c.wantH {
			t.Fatalf("Default(%d, %d) = (%d, %d), want (%d, %d)", c.w, c.h, w, h, c.wantW, c.wantH)
		}
	}
}
