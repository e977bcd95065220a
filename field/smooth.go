package field

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const SmoothSigma = 2.0

// GaussianKernel returns the normalized taps for offsets -halfSize..halfSize
func GaussianKernel(halfSize int, sigma float64) (w []float64) {
	w = make([]float64, 2*halfSize+1)
	for k := -halfSize; k <= halfSize; k++ {
		w[k+halfSize] = math.Exp(-float64(k*k) / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(w), w)
	return
}

/*
Smooth applies a separable Gaussian blur (sigma = 2) in place. Taps that fall
outside the grid are skipped rather than reflected, so values near the edges
are attenuated. Rows are convolved into a transposed scratch buffer so the
column pass also walks contiguous memory.
*/
func (sf *ScalarField) Smooth(halfSize int) {
	if halfSize <= 0 {
		return
	}
	var (
		nx, ny = sf.NX, sf.NY
		w      = GaussianKernel(halfSize, SmoothSigma)
		tmp    = make([]float64, len(sf.data))
	)
	convolveRows(sf.data, tmp, nx, ny, w, halfSize)
	convolveRows(tmp, sf.data, ny, nx, w, halfSize)
	if sf.hasRange {
		sf.UpdateRange()
	}
}

// convolveRows filters each of the nrows rows of length ncols in src and writes dst transposed
func convolveRows(src, dst []float64, ncols, nrows int, w []float64, halfSize int) {
	for j := 0; j < nrows; j++ {
		row := src[j*ncols : (j+1)*ncols]
		for i := 0; i < ncols; i++ {
			var sum float64
			kmin, kmax := max(-halfSize, -i), min(halfSize, ncols-1-i)
			for k := kmin; k <= kmax; k++ {
				sum += w[k+halfSize] * row[i+k]
			}
			dst[j+i*nrows] = sum
		}
	}
}
