package scene

import (
	"image"
	"math"

	"github.com/fogleman/gg"
)

// BlipKind classifies a radar contact.
type BlipKind int

const (
	BlipLocal BlipKind = iota
	BlipRemote
	BlipProjectile
)

// Blip is one contact on the top-down radar: world X/Z plus heading (yaw).
type Blip struct {
	X       float64
	Z       float64
	Heading float64
	Kind    BlipKind
	Label   string
}

// Radar renders a top-down debug view of the simulation. It is the
// degraded presentation surface the core is allowed to have; the real 3D
// pipeline lives outside this repository.
type Radar struct {
	Width  int
	Height int
	Range  float64 // world units from center to edge
}

// DefaultRadar returns a radar sized for the debug HTTP endpoint.
func DefaultRadar() Radar {
	return Radar{Width: 480, Height: 480, Range: 120}
}

// Render draws the blips centered on the local ship's frame.
func (r Radar) Render(blips []Blip) image.Image {
	dc := gg.NewContext(r.Width, r.Height)

	// Background and range rings
	dc.SetHexColor("#0a0e14")
	dc.Clear()
	cx := float64(r.Width) / 2
	cy := float64(r.Height) / 2
	dc.SetHexColor("#1d2b3a")
	dc.SetLineWidth(1)
	for i := 1; i <= 3; i++ {
		dc.DrawCircle(cx, cy, float64(i)*cx/3)
		dc.Stroke()
	}
	dc.DrawLine(cx, 0, cx, float64(r.Height))
	dc.DrawLine(0, cy, float64(r.Width), cy)
	dc.Stroke()

	scale := cx / r.Range
	for _, b := range blips {
		px := cx + b.X*scale
		py := cy + b.Z*scale
		if px < -10 || px > float64(r.Width)+10 || py < -10 || py > float64(r.Height)+10 {
			continue
		}

		switch b.Kind {
		case BlipProjectile:
			dc.SetHexColor("#ffeaa7")
			dc.DrawCircle(px, py, 2)
			dc.Fill()
		default:
			if b.Kind == BlipLocal {
				dc.SetHexColor("#4ecdc4")
			} else {
				dc.SetHexColor("#ff6b6b")
			}
			r.drawShip(dc, px, py, b.Heading)
			if b.Label != "" {
				dc.SetHexColor("#8fa3b0")
				dc.DrawStringAnchored(b.Label, px, py-12, 0.5, 0.5)
			}
		}
	}
	return dc.Image()
}

// drawShip draws a heading-oriented triangle. Heading is yaw in radians,
// zero facing -Z (up on the radar).
func (r Radar) drawShip(dc *gg.Context, px, py, heading float64) {
	const size = 7.0
	nose := heading + math.Pi // screen-space flip: -Z is up
	ax := px + size*math.Sin(nose)
	ay := py + size*math.Cos(nose)
	bx := px + size*0.7*math.Sin(nose+2.5)
	by := py + size*0.7*math.Cos(nose+2.5)
	cx := px + size*0.7*math.Sin(nose-2.5)
	cy := py + size*0.7*math.Cos(nose-2.5)
	dc.MoveTo(ax, ay)
	dc.LineTo(bx, by)
	dc.LineTo(cx, cy)
	dc.ClosePath()
	dc.Fill()
}
