package core

// Vec3Buffer stores packed 3-component float32 vectors. Element i occupies
// offsets 3i, 3i+1 and 3i+2.
type Vec3Buffer []float32

// NewVec3Buffer allocates a buffer holding n vectors. Negative sizes yield an
// empty buffer.
func NewVec3Buffer(n int) Vec3Buffer {
	if n < 0 {
		n = 0
	}
	return make(Vec3Buffer, 3*n)
}

// Len reports the number of vectors stored.
func (b Vec3Buffer) Len() int { return len(b) / 3 }

// At returns vector i.
func (b Vec3Buffer) At(i int) (float32, float32, float32) {
	o := 3 * i
	return b[o], b[o+1], b[o+2]
}

// Set stores vector i.
func (b Vec3Buffer) Set(i int, x, y, z float32) {
	o := 3 * i
	b[o] = x
	b[o+1] = y
	b[o+2] = z
}
