package robust

// Select returns the k-th smallest element (0-based) of xs in expected
// linear time. It reorders xs. Select panics if k is out of range.
//
// Partitioning is three-way so that runs of equal values, common when
// candidates coincide, do not degrade it to quadratic time.
func Select(xs []float64, k int) float64 {
	if k < 0 || k >= len(xs) {
		panic("robust: select rank out of range")
	}
	lo, hi := 0, len(xs)-1
	for lo < hi {
		pivot := medianOfThree(xs[lo], xs[lo+(hi-lo)/2], xs[hi])
		lt, gt, i := lo, hi, lo
		for i <= gt {
			switch {
			case xs[i] < pivot:
				xs[lt], xs[i] = xs[i], xs[lt]
				lt++
				i++
			case xs[i] > pivot:
				xs[gt], xs[i] = xs[i], xs[gt]
				gt--
			default:
				i++
			}
		}
		switch {
		case k < lt:
			hi = lt - 1
		case k > gt:
			lo = gt + 1
		default:
			return pivot
		}
	}
	return xs[k]
}

func medianOfThree(a, b, c float64) float64 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		return a
	}
	return b
}
