// Package pose defines the stable pose record persisted by the .stp codec.
//
// A stable pose is a resting orientation of a 3D object on a supporting
// plane: the probability the object settles into it, the rotation bringing
// the object into that orientation, and a reference translation.
package pose

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultID is the identifier assigned to a pose when the source data
// carries none.
const DefaultID = "0"

// StablePose is one candidate resting pose of a mesh. Values are produced
// upstream by the pose-computation stage and trusted as-is: no orthonormality
// check on R, no probability normalisation across a set.
type StablePose struct {
	// P is the probability mass of this resting orientation, in [0,1].
	P float64

	// R is the rotation bringing the object into the resting orientation,
	// row-major.
	R [3][3]float64

	// X0 is the reference point offset of the pose.
	X0 [3]float64

	// ID distinguishes poses of the same mesh. Defaults to DefaultID when
	// the source data has no identifier.
	ID string
}

// Rotation returns R as a dense 3x3 matrix.
func (sp StablePose) Rotation() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		sp.R[0][0], sp.R[0][1], sp.R[0][2],
		sp.R[1][0], sp.R[1][1], sp.R[1][2],
		sp.R[2][0], sp.R[2][1], sp.R[2][2],
	})
}

// Translation returns X0 as a dense 3-vector.
func (sp StablePose) Translation() *mat.VecDense {
	return mat.NewVecDense(3, []float64{sp.X0[0], sp.X0[1], sp.X0[2]})
}

// Transform returns the 4x4 homogeneous transform [R | X0; 0 0 0 1].
func (sp StablePose) Transform() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		sp.R[0][0], sp.R[0][1], sp.R[0][2], sp.X0[0],
		sp.R[1][0], sp.R[1][1], sp.R[1][2], sp.X0[1],
		sp.R[2][0], sp.R[2][1], sp.R[2][2], sp.X0[2],
		0, 0, 0, 1,
	})
}

// IsRotation reports whether R is a proper rotation within tol: R'R within
// tol of the identity element-wise, and det(R) within tol of +1. Advisory
// only; the codec never enforces it.
func (sp StablePose) IsRotation(tol float64) bool {
	r := sp.Rotation()

	var rtr mat.Dense
	rtr.Mul(r.T(), r)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(rtr.At(i, j)-want) > tol {
				return false
			}
		}
	}

	return math.Abs(mat.Det(r)-1) <= tol
}
