package multilateration

import (
	"fmt"
	"math"
	"multilateration-sim/internal/common"

	"gonum.org/v1/gonum/blas/blas64" // For vector norm calculation
	"gonum.org/v1/gonum/mat"
)

// dimension of the solved positions.
const dimension = 2

// Measurement represents a single distance measurement from an anchor.
type Measurement struct {
	AnchorPosition common.Point
	Distance       float64
}

// Solution contains the estimated position and a measure of the solution quality.
type Solution struct {
	Position      common.Point
	ResidualError float64 // Lower is better. Represents ||Ax - b|| / sqrt(m)
}

// SolveLeastSquares attempts to find the target position using the least squares method.
// It requires at least three measurements for this linearized approach.
// Returns the estimated position and the normalized residual error.
func SolveLeastSquares(measurements []Measurement) (Solution, error) {
	numMeasurements := len(measurements)
	var emptySolution Solution // Solution to return on error

	// We need at least n+1 measurements for n dimensions for the linearized system
	// to potentially have a unique solution.
	if numMeasurements < dimension+1 {
		return emptySolution, fmt.Errorf("insufficient measurements: got %d, need at least %d", numMeasurements, dimension+1)
	}

	// Use the last measurement's anchor as the reference (k in the equations)
	ref := measurements[numMeasurements-1]
	refDist := math.Max(ref.Distance, 0)
	refDistSq := refDist * refDist                 // d_k^2
	refAnchorNormSq := ref.AnchorPosition.NormSq() // ||S_k||^2

	// Matrix A is (m-1) x 2 and vector b is (m-1) x 1
	numEquations := numMeasurements - 1
	aData := make([]float64, numEquations*dimension)
	bData := make([]float64, numEquations)

	for i := 0; i < numEquations; i++ {
		m := measurements[i]
		dist := math.Max(m.Distance, 0)

		// Row i of A: 2 * (S_k - S_i)
		diff := ref.AnchorPosition.Sub(m.AnchorPosition).Scale(2)
		aData[i*dimension] = diff.X
		aData[i*dimension+1] = diff.Y

		// b_i = d_i^2 - d_k^2 - ||S_i||^2 + ||S_k||^2
		bData[i] = dist*dist - refDistSq - m.AnchorPosition.NormSq() + refAnchorNormSq
	}

	A := mat.NewDense(numEquations, dimension, aData)
	b := mat.NewVecDense(numEquations, bData)

	// QR rather than the normal equations, which would square the condition number.
	var qr mat.QR
	qr.Factorize(A)

	var x mat.VecDense
	if err := qr.SolveVecTo(&x, false, b); err != nil {
		// Collinear anchors make A rank-deficient.
		return emptySolution, fmt.Errorf("QR least squares solve failed: %w", err)
	}

	// --- Calculate Residual Error ---
	var residualVec mat.VecDense
	residualVec.MulVec(A, &x)           // residualVec = A*x
	residualVec.SubVec(b, &residualVec) // residualVec = b - A*x
	residualNorm := blas64.Nrm2(residualVec.RawVector())
	normalizedResidual := residualNorm / math.Sqrt(float64(numEquations))

	position := common.Point{X: x.AtVec(0), Y: x.AtVec(1)}
	if !position.IsFinite() {
		return emptySolution, fmt.Errorf("least squares produced a non-finite position %s", position)
	}

	return Solution{
		Position:      position,
		ResidualError: normalizedResidual,
	}, nil
}

// CalculateLocalizationError calculates the Euclidean distance between the true and estimated positions.
func CalculateLocalizationError(truePosition, estimatedPosition common.Point) (float64, error) {
	if !truePosition.IsFinite() || !estimatedPosition.IsFinite() {
		return 0, fmt.Errorf("cannot calculate error with non-finite positions %s, %s", truePosition, estimatedPosition)
	}
	return truePosition.Distance(estimatedPosition), nil
}
