package math3d

import (
	"testing"
)

func BenchmarkMatrixMul(b *testing.B) {
	m1 := Translation(1, 2, 3)
	m2 := RotationY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMatrixMulVec3(b *testing.B) {
	m := Translation(1, 2, 3).RotateY(0.5)
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkRotateXYZ(b *testing.B) {
	m := Translation(0, 0, 1000)

	for b.Loop() {
		_ = m.RotateX(0.1).RotateY(0.2).RotateZ(0.3)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkVec3Dot(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Dot(v2)
	}
}
