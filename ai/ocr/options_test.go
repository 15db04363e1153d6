package ocr

import "testing"

func TestApply(t *testing.T) {
	o := Apply()
	if o.Language != "eng" || o.DetailsLevel != DetailsMedium || o.Engine != 0 {
		t.Fatalf("unexpected defaults: %+v", o)
	}

	o = Apply(WithLanguage("jpn"), WithEngine(3), WithDetailsLevel(DetailsHigh), WithDetectOrientation(true), WithImageFormat("image/bmp"))
	if o.Language != "jpn" || o.Engine != 3 || o.DetailsLevel != DetailsHigh || !o.DetectOrientation || o.ImageFormat != "image/bmp" {
		t.Fatalf("options not applied: %+v", o)
	}
}

func TestNormalize(t *testing.T) {
	b := BoundingBox{X: 50, Y: 25, Width: 100, Height: 50}
	if got := b.Normalize(0, 100); got != b {
		t.Fatalf("zero width should leave the box unchanged, got %+v", got)
	}
	if got := b.Normalize(200, 100); got != (BoundingBox{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5}) {
		t.Fatalf("Normalize() = %+v", got)
	}
}
