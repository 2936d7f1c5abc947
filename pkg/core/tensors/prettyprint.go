// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// MaxSizeToPrint is the number of values printed per row by Summary before eliding the middle ones
// with an ellipsis. The same cap is applied to the number of rows.
var MaxSizeToPrint = 6

// TensorStringDefaultPrecision used by Tensor.String.
const TensorStringDefaultPrecision = 4

// String converts to string, using t.Summary(precision=4).
func (t *Tensor) String() string {
	if t == nil {
		return "Tensor(nil)"
	}
	return t.Summary(TensorStringDefaultPrecision)
}

// Summary returns a multi-line summary of the Tensor's content, inspired by numpy output.
// Large axes are elided with "...".
func (t *Tensor) Summary(precision int) string {
	if t.shape.IsZeroSize() {
		return t.shape.String()
	}

	var buf bytes.Buffer
	w := func(format string, args ...any) { _, _ = fmt.Fprintf(&buf, format, args...) }
	wValue := func(v float32) { w("%.*g", precision, v) }

	dims := t.shape.Dimensions
	for _, dim := range dims {
		w("[%d]", dim)
	}
	w("float32")
	if len(dims) == 0 {
		w("(")
		wValue(t.flat[0])
		w(")")
		return buf.String()
	}

	half := MaxSizeToPrint / 2
	var printElements func(index, indent int, currentDims []int)
	printElements = func(index, indent int, currentDims []int) {
		if len(currentDims) == 1 {
			w("{")
			for ii := 0; ii < currentDims[0]; ii++ {
				if currentDims[0] > MaxSizeToPrint && ii == half {
					w(", ...")
					ii = currentDims[0] - half - 1
					continue
				}
				if ii > 0 {
					w(", ")
				}
				wValue(t.flat[index+ii])
			}
			w("}")
			return
		}

		stride := 1
		for _, dim := range currentDims[1:] {
			stride *= dim
		}
		indentStr := strings.Repeat(" ", indent)
		w("{")
		if currentDims[0] > 1 {
			w("\n%s", indentStr)
		}
		for ii := 0; ii < currentDims[0]; ii++ {
			if currentDims[0] > MaxSizeToPrint && ii == half {
				w(",\n%s...", indentStr)
				ii = currentDims[0] - half - 1
				continue
			}
			if ii > 0 {
				w(",\n%s", indentStr)
			}
			printElements(index+ii*stride, indent+1, currentDims[1:])
		}
		w("}")
	}
	printElements(0, 1, dims)
	return buf.String()
}

// GoStr converts to string, using a Go-syntax flat representation followed by the dimensions.
// Useful when writing tests.
func (t *Tensor) GoStr() string {
	if t == nil {
		return "Tensor(nil)"
	}
	if t.IsScalar() {
		return fmt.Sprintf("float32(%v)", t.flat[0])
	}
	parts := make([]string, len(t.flat))
	for ii, v := range t.flat {
		parts[ii] = fmt.Sprint(v)
	}
	return fmt.Sprintf("%s: []float32{%s}", t.shape, strings.Join(parts, ", "))
}

// MemoryString returns the human-readable memory used by the tensor's values, e.g. "4.0 MB".
func (t *Tensor) MemoryString() string {
	return humanize.Bytes(uint64(t.Memory()))
}
