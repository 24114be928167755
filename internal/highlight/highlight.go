package highlight

import (
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/tidwall/gjson"

	"github.com/marginote/readsync/internal/readlist"
)

// Kind tags the recognized encodings of a highlight's patch string.
type Kind int

const (
	// Unrecognized covers empty, malformed, or foreign patch payloads.
	Unrecognized Kind = iota
	// TextOffset anchors a highlight at a character offset in plain text.
	TextOffset
	// SpatialBox anchors a highlight at a bounding box in a paged document.
	SpatialBox
)

// Patch is the decoded form of a highlight's positional patch.
type Patch struct {
	Kind   Kind
	Offset int
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Point is a highlight's anchor position within a spatially laid out
// document.
type Point struct {
	Left float64
	Top  float64
}

// DecodePatch classifies a patch string into its tagged form. A JSON
// payload with a bbox of exactly four numbers is spatial; a diff-match-patch
// document is a text offset; everything else is unrecognized. Decoding
// never fails — missing positional data simply yields Unrecognized.
func DecodePatch(patch string) Patch {
	if gjson.Valid(patch) {
		bbox := gjson.Get(patch, "bbox").Array()
		if len(bbox) != 4 {
			return Patch{Kind: Unrecognized}
		}
		return Patch{
			Kind:   SpatialBox,
			Left:   bbox[0].Float(),
			Top:    bbox[1].Float(),
			Width:  bbox[2].Float(),
			Height: bbox[3].Float(),
		}
	}

	patches, err := diffmatchpatch.New().PatchFromText(patch)
	if err != nil || len(patches) == 0 {
		return Patch{Kind: Unrecognized}
	}

	return Patch{Kind: TextOffset, Offset: patches[0].Start1}
}

// Location returns the character offset a text-anchored highlight starts
// at, or 0 when the patch carries no text offset.
func Location(patch string) int {
	decoded := DecodePatch(patch)
	if decoded.Kind != TextOffset {
		return 0
	}
	return decoded.Offset
}

// PointOf returns the bounding-box anchor of a spatially anchored
// highlight, or the zero point when the patch carries no box.
func PointOf(patch string) Point {
	decoded := DecodePatch(patch)
	if decoded.Kind != SpatialBox {
		return Point{}
	}
	return Point{Left: decoded.Left, Top: decoded.Top}
}

// Compare orders two highlights as they appear in a rendered document:
// vertical position first, horizontal position when the tops are equal.
// Highlights without spatial anchors compare as zero points.
func Compare(a, b readlist.Highlight) int {
	pa := PointOf(a.Patch)
	pb := PointOf(b.Patch)

	if pa.Top != pb.Top {
		if pa.Top < pb.Top {
			return -1
		}
		return 1
	}

	switch {
	case pa.Left < pb.Left:
		return -1
	case pa.Left > pb.Left:
		return 1
	}
	return 0
}
