package testutil

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
)

// RequireShape fails t unless m has r rows and c columns.
func RequireShape(t *testing.T, m mat.Matrix, r, c int) {
	t.Helper()
	gr, gc := m.Dims()
	if gr != r || gc != c {
		t.Fatalf("shape = %dx%d, want %dx%d", gr, gc, r, c)
	}
}

// RequireFinite fails t if any element of m is NaN or Inf.
func RequireFinite(t *testing.T, m mat.Matrix) {
	t.Helper()
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("(%d,%d): non-finite value %v", i, j, v)
			}
		}
	}
}

// RequireAllZero fails t if any element of m is not exactly zero.
func RequireAllZero(t *testing.T, m mat.Matrix) {
	t.Helper()
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v != 0 {
				t.Fatalf("(%d,%d) = %v, want 0", i, j, v)
			}
		}
	}
}

// Rows copies m into a slice of rows for diffing.
func Rows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

// RequireMatrixEqual fails t with a cmp diff unless got and want are
// element-for-element identical.
func RequireMatrixEqual(t *testing.T, got, want mat.Matrix) {
	t.Helper()
	if diff := cmp.Diff(Rows(want), Rows(got)); diff != "" {
		t.Fatalf("matrix mismatch (-want +got):\n%s", diff)
	}
}

// RequirePanics fails t unless fn panics with a message containing substr.
func RequirePanics(t *testing.T, substr string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		msg, ok := r.(string)
		if !ok {
			if err, isErr := r.(error); isErr {
				msg = err.Error()
			}
		}
		if !strings.Contains(msg, substr) {
			t.Fatalf("panic %q does not mention %q", msg, substr)
		}
	}()
	fn()
}

// RowArgmax returns the column of the first maximum in row i of m.
func RowArgmax(m mat.Matrix, i int) int {
	_, c := m.Dims()
	best := 0
	for j := 1; j < c; j++ {
		if m.At(i, j) > m.At(i, best) {
			best = j
		}
	}
	return best
}
