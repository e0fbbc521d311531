// Package die draws face values for a single six-sided die.
package die

import "math/rand/v2"

const (
	// MinFace is the lowest face value.
	MinFace = 1
	// Faces is the number of sides, which is also the highest face value.
	Faces = 6
)

// Roller draws one face value. Handlers accept a Roller so tests can pin the
// outcome; production code passes Roll.
type Roller func() int

// Roll returns a face in [MinFace, Faces], each with probability 1/Faces and
// independent of earlier draws.
//
// The draw uses the math/rand/v2 top-level generator, which the runtime seeds
// from the operating system and which is safe for concurrent use. Roll takes
// no seed and cannot fail.
func Roll() int {
	return rand.IntN(Faces) + MinFace
}

// Valid reports whether face is a value a die can show.
func Valid(face int) bool {
	return face >= MinFace && face <= Faces
}
