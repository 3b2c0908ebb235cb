// Package hamming builds the parity check matrix of a binary Hamming
// code: the fixture spec.md §8 scenario 4 decodes against. Column i
// (1-indexed) is the binary representation of i, so any single-column
// syndrome directly names the bit in error.
package hamming

import "github.com/KuantumBS/ldpc/sparsemod2"

// NewH builds the paritySymbols x (2^paritySymbols - 1) parity check
// matrix of the Hamming code with the given number of parity symbols.
// Generator-matrix construction is out of scope here (this repo only
// decodes, never encodes) — see DESIGN.md.
func NewH(paritySymbols int) (*sparsemod2.Matrix, error) {
	if paritySymbols < 3 {
		return nil, &sparsemod2.InvalidMatrixError{Reason: "hamming codes require >= 3 parity symbols"}
	}

	n := 1<<paritySymbols - 1
	var nz []sparsemod2.Coordinate
	for col := 1; col <= n; col++ {
		for row := 0; row < paritySymbols; row++ {
			if col&(1<<row) != 0 {
				nz = append(nz, sparsemod2.Coordinate{Row: row, Col: col - 1})
			}
		}
	}
	return sparsemod2.New(paritySymbols, n, nz)
}
