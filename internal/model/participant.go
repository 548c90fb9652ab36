package model

// Gender tags a participant. It is passed through to the record only.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Valid reports whether g is a known gender tag.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// Shape is the visual archetype fixed by the first phase answer.
type Shape string

const (
	ShapeCrystal Shape = "Crystal" // sharp, structured
	ShapeNebula  Shape = "Nebula"  // soft, cloud-like
	ShapeThunder Shape = "Thunder" // chaotic, branching
)

// Motion is the visual motion tag fixed by the third phase answer.
type Motion string

const (
	MotionGlass Motion = "Glass" // slow rotation
	MotionSteel Motion = "Steel" // locked, vibrating
	MotionWater Motion = "Water" // flowing
)
