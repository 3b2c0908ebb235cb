// Package girth measures the length of the shortest cycle in the
// Tanner graph induced by a SparseMod2 matrix, and whether it has a
// cycle shorter than a given length. It is a standalone analysis helper
// for the matrices the decoder consumes: neither the decoder nor any
// other package's tests call it, and it does not construct matrices.
package girth

import (
	"context"
	"math"
	"sync"

	"github.com/nathanhack/threadpool"

	"github.com/KuantumBS/ldpc/sparsemod2"
)

type node struct {
	parentIndex int
}

// Calculate returns the Tanner graph's girth: the length of its
// shortest cycle, or -1 if the graph is acyclic. threads <= 0 uses
// runtime.NumCPU (see nathanhack/threadpool).
func Calculate(ctx context.Context, H *sparsemod2.Matrix, threads int) int {
	return CalculateLowerBound(ctx, H, -1, threads)
}

// CalculateLowerBound is Calculate bounded to cycles of length <=
// smallestGirth; -1 disables the bound. Returns -1 if no cycle within
// the bound was found.
func CalculateLowerBound(ctx context.Context, H *sparsemod2.Matrix, smallestGirth, threads int) int {
	if smallestGirth != -1 && (smallestGirth < 4 || smallestGirth%2 != 0) {
		panic("smallestGirth == -1 or smallestGirth must be an even number >= 4")
	}

	rows, _ := H.Dims()
	pool := threadpool.New(ctx, threads)
	found := -1
	mux := sync.RWMutex{}

	for i := 0; i < rows; i++ {
		checkIndex := i
		pool.Add(func() {
			mux.RLock()
			bound := smallestGirth
			mux.RUnlock()

			g := CalculateCycleLowerBound(ctx, H, checkIndex, bound)

			mux.Lock()
			if g > 0 && (g <= smallestGirth || smallestGirth == -1) {
				smallestGirth = g
				found = g
			}
			mux.Unlock()
		})
	}
	pool.Wait()
	return found
}

// HasCycleShorterThan reports whether any cycle through any check
// node is strictly shorter than cycleLen.
func HasCycleShorterThan(ctx context.Context, H *sparsemod2.Matrix, cycleLen, threads int) bool {
	if cycleLen < 4 {
		panic("cycleLen >= 4 required")
	}

	rows, _ := H.Dims()
	pool := threadpool.New(ctx, threads)
	shorter := false
	mux := sync.RWMutex{}

	for i := 0; i < rows; i++ {
		checkIndex := i
		pool.Add(func() {
			mux.RLock()
			already := shorter
			mux.RUnlock()
			if already {
				return
			}

			g := CalculateCycleLowerBound(ctx, H, checkIndex, cycleLen)

			mux.Lock()
			if g > 0 && g < cycleLen {
				shorter = true
			}
			mux.Unlock()
		})
	}
	pool.Wait()
	return shorter
}

// CalculateCycleLowerBound runs a BFS from check node checkIndex,
// alternating between variable-node and check-node hops, for up to
// maxGirth/2 levels (-1 searches until a cycle closes). It returns the
// closing cycle's length, or -1 if none was found within the bound.
func CalculateCycleLowerBound(ctx context.Context, H *sparsemod2.Matrix, checkIndex, maxGirth int) int {
	if maxGirth == -1 {
		maxGirth = math.MaxInt32
	}

	rows, _ := H.Dims()
	history := make([]map[int]node, 0, rows)

	hop := make(map[int]node)
	for _, v := range H.RowNonzeros(checkIndex) {
		hop[v] = node{parentIndex: checkIndex}
	}
	if len(hop) <= 1 {
		return -1
	}
	history = append(history, hop)

	for level := 1; level < 2*rows && level < maxGirth/2+1; level++ {
		select {
		case <-ctx.Done():
			return -1
		default:
		}

		prevHop := history[level-1]
		hop := make(map[int]node)
		onVariable := level%2 == 1
		for v, gn := range prevHop {
			var neighbors []int
			if onVariable {
				neighbors = H.ColNonzeros(v)
			} else {
				neighbors = H.RowNonzeros(v)
			}
			for _, i := range neighbors {
				if i == gn.parentIndex {
					continue
				}
				if _, has := hop[i]; has || (onVariable && i == checkIndex) {
					return (level + 1) * 2
				}
				hop[i] = node{parentIndex: v}
			}
		}
		history = append(history, hop)
	}
	return -1
}
