package userfunc

import (
	"math"
	"math/bits"

	"github.com/born-ml/born-ext/internal/parallel"
)

// maxLevel is the highest 2-bit activation level.
const maxLevel = 3

// quantizeLevel maps x to its 2-bit level in {0, 1, 2, 3} over [0, activationMax].
// NaN maps to 0.
func quantizeLevel(x, activationMax float32) uint8 {
	switch {
	case math.IsNaN(float64(x)), x <= 0:
		return 0
	case x >= activationMax:
		return maxLevel
	}
	return uint8(math.Round(float64(x / activationMax * maxLevel)))
}

// quantizeLevels computes the level of every activation.
func quantizeLevels(x []float32, activationMax float32) []uint8 {
	levels := make([]uint8, len(x))
	for i, v := range x {
		levels[i] = quantizeLevel(v, activationMax)
	}
	return levels
}

// weightScales returns the per-row scale alpha_m = mean(|w[m,:]|), or ones when
// scaling is disabled.
func weightScales(w []float32, m, k int, scale bool) []float32 {
	alpha := make([]float32, m)
	for i := 0; i < m; i++ {
		if !scale {
			alpha[i] = 1
			continue
		}
		var sum float64
		for _, v := range w[i*k : (i+1)*k] {
			sum += math.Abs(float64(v))
		}
		alpha[i] = float32(sum / float64(k))
	}
	return alpha
}

// wordsFor returns the number of uint64 words holding k bits.
func wordsFor(k int) int {
	return (k + 63) / 64
}

// packWeightSigns packs the sign bit of each weight row along K: bit set means
// w is not negative (binarised to +1, NaN included), clear means -1. Padding
// bits stay clear.
func packWeightSigns(w []float32, m, k int) []uint64 {
	words := wordsFor(k)
	packed := make([]uint64, m*words)
	for i := 0; i < m; i++ {
		row := packed[i*words : (i+1)*words]
		for kk, v := range w[i*k : (i+1)*k] {
			if !(v < 0) {
				row[kk/64] |= 1 << (kk % 64)
			}
		}
	}
	return packed
}

// packActivationPlanes packs the two bit planes of each activation column along K.
// levels is [K, N] row-major; the planes are returned column-major, words per column.
// colSums[n] is the sum of levels of column n.
func packActivationPlanes(levels []uint8, k, n int) (plane0, plane1 []uint64, colSums []int) {
	words := wordsFor(k)
	plane0 = make([]uint64, n*words)
	plane1 = make([]uint64, n*words)
	colSums = make([]int, n)
	for kk := 0; kk < k; kk++ {
		word, bit := kk/64, uint64(1)<<(kk%64)
		for j := 0; j < n; j++ {
			lvl := levels[kk*n+j]
			if lvl&1 != 0 {
				plane0[j*words+word] |= bit
			}
			if lvl&2 != 0 {
				plane1[j*words+word] |= bit
			}
			colSums[j] += int(lvl)
		}
	}
	return plane0, plane1, colSums
}

// binaryGEMM computes out[m, n] = alpha[m] * step * sum_k sign(w[m,k]) * level[k,n]
// from packed operands. With w = 2b - 1 and level = a0 + 2*a1:
//
//	sum_k w*level = 2*(pc(b & a0) + 2*pc(b & a1)) - colSum
func binaryGEMM(out []float32, wbits []uint64, alpha []float32, plane0, plane1 []uint64, colSums []int, m, k, n int, step float32, cfg parallel.Config) {
	words := wordsFor(k)
	parallel.ForRows(m, n*words, func(start, end int) {
		for i := start; i < end; i++ {
			wRow := wbits[i*words : (i+1)*words]
			scale := alpha[i] * step
			for j := 0; j < n; j++ {
				a0 := plane0[j*words : (j+1)*words]
				a1 := plane1[j*words : (j+1)*words]
				matched := 0
				for wi, wb := range wRow {
					matched += bits.OnesCount64(wb&a0[wi]) + 2*bits.OnesCount64(wb&a1[wi])
				}
				out[i*n+j] = scale * float32(2*matched-colSums[j])
			}
		}
	}, cfg)
}
