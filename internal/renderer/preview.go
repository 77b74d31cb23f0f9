// Package renderer draws a top-down preview of the waypoints and the path the
// camera took. It is a debugging aid, not the scene renderer.
package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ivlev/tourcam/internal/camera"
	"github.com/ivlev/tourcam/internal/waypoint"
)

var (
	background  = color.RGBA{0x1a, 0x1a, 0x1a, 0xff}
	gridColor   = color.RGBA{0x2a, 0x2a, 0x2a, 0xff}
	modelColor  = color.RGBA{0xff, 0x69, 0xb4, 0xff}
	trailColor  = color.RGBA{0x5f, 0xa8, 0xd3, 0xff}
	markerColor = color.RGBA{0xf2, 0xc1, 0x4e, 0xff}
	cameraColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
	labelColor  = color.RGBA{0xd0, 0xd0, 0xd0, 0xff}
)

// projection maps world X/Z onto image pixels.
type projection struct {
	minX, minZ float64
	scale      float64
	offX, offY float64
}

func (p projection) point(v r3.Vec) image.Point {
	return image.Point{
		X: int(math.Round((v.X-p.minX)*p.scale + p.offX)),
		Y: int(math.Round((v.Z-p.minZ)*p.scale + p.offY)),
	}
}

// fit builds a projection that keeps every point inside a w x h image with a
// margin on each side.
func fit(points []r3.Vec, w, h int) projection {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minZ, maxZ = math.Min(minZ, p.Z), math.Max(maxZ, p.Z)
	}
	spanX := math.Max(maxX-minX, 1e-3)
	spanZ := math.Max(maxZ-minZ, 1e-3)

	margin := 0.1 * math.Min(float64(w), float64(h))
	scale := math.Min((float64(w)-2*margin)/spanX, (float64(h)-2*margin)/spanZ)

	return projection{
		minX:  minX,
		minZ:  minZ,
		scale: scale,
		offX:  (float64(w) - spanX*scale) / 2,
		offY:  (float64(h) - spanZ*scale) / 2,
	}
}

// Preview renders the registry's waypoints and the camera trail seen from
// above. The last trail pose is drawn as the camera with its aim direction.
func Preview(reg *waypoint.Registry, trail []camera.Pose, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	var points []r3.Vec
	for _, id := range reg.Views() {
		wp, _ := reg.Resolve(id)
		points = append(points, wp.Position, wp.LookAt)
	}
	for _, p := range trail {
		points = append(points, p.Position)
	}
	proj := fit(points, width, height)

	drawGrid(img, proj)

	// The model sits at the origin.
	fillSquare(img, proj.point(r3.Vec{}), 4, modelColor)

	for i := 1; i < len(trail); i++ {
		drawLine(img, proj.point(trail[i-1].Position), proj.point(trail[i].Position), trailColor)
	}

	for _, id := range reg.Views() {
		wp, _ := reg.Resolve(id)
		at := proj.point(wp.Position)
		fillSquare(img, at, 3, markerColor)
		drawLabel(img, at.Add(image.Point{X: 6, Y: -4}), string(id))
	}

	if len(trail) > 0 {
		cam := trail[len(trail)-1]
		at := proj.point(cam.Position)
		fillSquare(img, at, 2, cameraColor)

		// Aim tick, a fixed screen length along the projected forward vector.
		dir := r3.Vec{X: cam.Forward.X, Z: cam.Forward.Z}
		if n := r3.Norm(dir); n > 1e-9 {
			dir = r3.Scale(16/n, dir)
			drawLine(img, at, at.Add(image.Point{X: int(dir.X), Y: int(dir.Z)}), cameraColor)
		}
	}

	return img
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// drawGrid draws one line per world unit, skipping dense grids.
func drawGrid(img *image.RGBA, proj projection) {
	if proj.scale < 8 {
		return
	}
	b := img.Bounds()
	startX := math.Ceil(proj.minX - proj.offX/proj.scale)
	for x := startX; ; x++ {
		px := proj.point(r3.Vec{X: x, Z: proj.minZ}).X
		if px >= b.Max.X {
			break
		}
		drawLine(img, image.Point{X: px, Y: b.Min.Y}, image.Point{X: px, Y: b.Max.Y - 1}, gridColor)
	}
	startZ := math.Ceil(proj.minZ - proj.offY/proj.scale)
	for z := startZ; ; z++ {
		py := proj.point(r3.Vec{X: proj.minX, Z: z}).Y
		if py >= b.Max.Y {
			break
		}
		drawLine(img, image.Point{X: b.Min.X, Y: py}, image.Point{X: b.Max.X - 1, Y: py}, gridColor)
	}
}

func fillSquare(img *image.RGBA, at image.Point, r int, c color.Color) {
	rect := image.Rect(at.X-r, at.Y-r, at.X+r+1, at.Y+r+1).Intersect(img.Bounds())
	draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// drawLine rasterises a segment with Bresenham's algorithm.
func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	for {
		if (image.Point{X: a.X, Y: a.Y}).In(img.Bounds()) {
			img.SetRGBA(a.X, a.Y, c)
		}
		if a == b {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			a.X += sx
		}
		if e2 <= dx {
			err += dx
			a.Y += sy
		}
	}
}

func drawLabel(img *image.RGBA, at image.Point, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(at.X, at.Y),
	}
	d.DrawString(text)
}

// abs returns absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
