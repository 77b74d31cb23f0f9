package renderer

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ivlev/tourcam/internal/camera"
	"github.com/ivlev/tourcam/internal/waypoint"
)

func TestPreview(t *testing.T) {
	reg := waypoint.MustDefault()
	ctrl, err := camera.New(reg, camera.DefaultTuning())
	if err != nil {
		t.Fatalf("camera.New failed: %v", err)
	}

	trail := []camera.Pose{ctrl.Pose()}
	ctrl.SetTarget(waypoint.Side)
	for ctrl.Step() {
		trail = append(trail, ctrl.Pose())
	}
	trail = append(trail, ctrl.Pose())

	img := Preview(reg, trail, 320, 240)

	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Fatalf("Unexpected size %v", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != background {
		t.Errorf("Corner should be background, got %v", got)
	}

	points := []r3.Vec{}
	for _, id := range reg.Views() {
		wp, _ := reg.Resolve(id)
		points = append(points, wp.Position, wp.LookAt)
	}
	for _, p := range trail {
		points = append(points, p.Position)
	}
	proj := fit(points, 320, 240)

	cam := proj.point(trail[len(trail)-1].Position)
	if got := img.RGBAAt(cam.X, cam.Y); got != cameraColor {
		t.Errorf("Camera marker missing at %v, got %v", cam, got)
	}

	front, _ := reg.Resolve(waypoint.Front)
	at := proj.point(front.Position)
	if got := img.RGBAAt(at.X+3, at.Y+3); got != markerColor {
		t.Errorf("Front marker missing near %v, got %v", at, got)
	}
}

func TestFitKeepsPointsInside(t *testing.T) {
	points := []r3.Vec{{X: -10, Z: -3}, {X: 25, Z: 40}, {X: 0, Z: 0}}
	proj := fit(points, 200, 100)
	bounds := image.Rect(0, 0, 200, 100)

	for _, p := range points {
		if pt := proj.point(p); !pt.In(bounds) {
			t.Errorf("Point %v projected outside image: %v", p, pt)
		}
	}
}

func TestFitSinglePoint(t *testing.T) {
	proj := fit([]r3.Vec{{X: 1, Z: 1}}, 100, 100)
	if pt := proj.point(r3.Vec{X: 1, Z: 1}); !pt.In(image.Rect(0, 0, 100, 100)) {
		t.Errorf("Single point should land inside, got %v", pt)
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	img := Preview(waypoint.MustDefault(), nil, 64, 48)

	if err := WritePNG(path, img); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("Decoded bounds %v, want %v", decoded.Bounds(), img.Bounds())
	}
}
