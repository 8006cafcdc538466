package classfile

import "math"

func u32ToFloat32(v uint32) float32 {
	return math.Float32frombits(v)
}

func u64ToFloat64(v uint64) float64 {
	return math.Float64frombits(v)
}
