package wordres

// Box is an axis-aligned pixel-space bounding box.
type Box struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the box's horizontal extent.
func (b Box) Width() float64 { return b.X1 - b.X0 }

// Height returns the box's vertical extent.
func (b Box) Height() float64 { return b.Y1 - b.Y0 }

// XMid returns the horizontal midpoint, used to sort noise outlines by
// x-position (spec §4.3 step 1).
func (b Box) XMid() float64 { return (b.X0 + b.X1) / 2 }

// Overlaps reports whether b and o share any horizontal extent, used to
// build the diacritic reassigner's overlap-candidate set (spec §4.3 step 2).
func (b Box) Overlaps(o Box) bool {
	return b.X0 < o.X1 && o.X0 < b.X1
}

// Blob is a connected component of foreground pixels, or a chopper-merged
// group of such components (spec GLOSSARY "Blob").
type Blob struct {
	ID         int
	Box        Box
	NoiseScore float64 // low score = likely noise (diacritic, speck)
}

// Group is one rebuilt-word output unit: the run of chopped blobs that
// map to a single output character (spec §3 "Rebuilt word": "one group
// per output character").
type Group struct {
	Blobs []Blob
}

// Box returns the union bounding box of every blob in the group.
func (g Group) Box() Box {
	if len(g.Blobs) == 0 {
		return Box{}
	}
	b := g.Blobs[0].Box
	for _, blob := range g.Blobs[1:] {
		if blob.Box.X0 < b.X0 {
			b.X0 = blob.Box.X0
		}
		if blob.Box.Y0 < b.Y0 {
			b.Y0 = blob.Box.Y0
		}
		if blob.Box.X1 > b.X1 {
			b.X1 = blob.Box.X1
		}
		if blob.Box.Y1 > b.Y1 {
			b.Y1 = blob.Box.Y1
		}
	}
	return b
}
