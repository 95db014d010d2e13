package source

import "fmt"

// PartType tells whether a token is a whole construct or a fragment of one.
// Literals interrupted by an embedded expression or by the end of the buffer
// are split into Start, Middle and End parts; everything else is Complete.
type PartType uint8

const (
	Complete PartType = iota
	Start
	Middle
	End
)

var partNames = [...]string{
	Complete: "COMPLETE",
	Start:    "START",
	Middle:   "MIDDLE",
	End:      "END",
}

// String returns the upper-case name of the part type.
func (p PartType) String() string {
	if int(p) < len(partNames) {
		return partNames[p]
	}
	return fmt.Sprintf("PART(%d)", int(p))
}
