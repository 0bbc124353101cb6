package maps

import (
	"strings"
	"testing"
)

func TestRender_IsDeterministic(t *testing.T) {
	r, err := NewRenderer(14)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	first, err := r.Render(26.2967719, 73.0351433, "Jodhpur, Rajasthan, India", false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := mustRenderer(t).Render(26.2967719, 73.0351433, "Jodhpur, Rajasthan, India", false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if first != second {
		t.Fatal("expected byte-identical output for identical inputs")
	}

	other, _ := r.Render(26.2967719, 73.0351433, "Jodhpur, Rajasthan, India", true)
	if other == first {
		t.Fatal("expected satellite view to differ")
	}
}

func mustRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(14)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	return r
}

func TestRender_Content(t *testing.T) {
	r := mustRenderer(t)

	html, err := r.Render(-33.8688, 151.2093, `Sydney <b>"Opera"</b>`, true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"L.map(\"map\").setView([ -33.8688 ,  151.2093 ],  14 )",
		"World_Imagery",
		"bindPopup(popup)",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
	if strings.Contains(html, "<b>") {
		t.Fatal("expected label markup to be escaped")
	}
}

func TestShareQR(t *testing.T) {
	r := mustRenderer(t)

	if got := r.ShareLink(26.2967719, 73.0351433); got != "https://www.openstreetmap.org/?mlat=26.29677&mlon=73.03514#map=14/26.29677/73.03514" {
		t.Fatalf("unexpected share link %q", got)
	}
	png, err := r.ShareQR(26.2967719, 73.0351433)
	if err != nil {
		t.Fatalf("qr: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Fatal("expected PNG output")
	}
}
