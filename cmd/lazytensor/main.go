// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// lazytensor builds a few expressions over a variable and prints how they were simplified.
//
// Example:
//
//	lazytensor -shape=2,3 -value=1.5 -scale=2 -v=2 -logtostderr
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/gomlx/lazytensor/pkg/core/expr"
	"github.com/gomlx/lazytensor/pkg/core/shapes"
	"github.com/gomlx/lazytensor/pkg/core/tensors"
	"github.com/gomlx/lazytensor/pkg/support/xslices"
	"github.com/janpfeifer/must"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagShape = xslices.Flag("shape", []int{2, 2}, "Comma-separated dimensions of the variable.", strconv.Atoi)
	flagValue = flag.Float64("value", 2, "Initial value of every element of the variable.")
	flagScale = flag.Float64("scale", 3, "Scale applied to the variable. Use 0 to see division by zero being reported.")
	flagColor = flag.String("color", "auto", "Color output: \"auto\", \"none\", \"256\" or \"true\".")
)

// colorProfile converts the -color flag to a termenv profile.
func colorProfile(name string) (termenv.Profile, error) {
	switch name {
	case "auto":
		return termenv.NewOutput(os.Stdout).EnvColorProfile(), nil
	case "none":
		return termenv.Ascii, nil
	case "256":
		return termenv.ANSI256, nil
	case "true":
		return termenv.TrueColor, nil
	}
	return termenv.Ascii, errors.Errorf("invalid -color=%q, valid values are \"auto\", \"none\", \"256\" or \"true\"", name)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

func printExpr(title string, n *expr.Node) {
	fmt.Printf("\n%s\n%s\n", headerStyle.Render(title), expr.Dump(n))
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	lipgloss.SetColorProfile(must.M1(colorProfile(*flagColor)))

	must.M(shapes.CheckDimensions(*flagShape...))

	arena := expr.NewArena()
	scale := float32(*flagScale)
	x, id, handle := arena.NewVariable(tensors.FromScalarAndDimensions(float32(*flagValue), *flagShape...))
	zeros, ones := expr.Const(0, *flagShape...), expr.Const(1, *flagShape...)
	fmt.Printf("Variable #%d: %s\n", id, handle)

	// Identities collapse to the variable itself.
	identity, err := expr.Build(func() *expr.Node {
		return expr.MustDiv(expr.MustMul(expr.MustAdd(x, zeros), ones), ones)
	})
	must.M(err)
	printExpr("(x + 0) * 1 / 1", identity)

	// Multiplying by zero never reads the variable.
	printExpr("x * 0", expr.MustMul(x, zeros))

	// Everything else is deferred.
	scaled, err := expr.Build(func() *expr.Node {
		return expr.MustSub(expr.MustDivScalar(expr.AddScalar(x, 1), scale), ones)
	})
	if errors.Is(err, expr.ErrDivisionByZero) {
		fmt.Printf("\n%s\n%v\n", headerStyle.Render("(x + 1) / scale - 1"), err)
	} else {
		must.M(err)
		printExpr("(x + 1) / scale - 1", scaled)
		printExpr("reshape(-((x + 1) / scale - 1))", expr.MustReshape(expr.Neg(scaled), scaled.Size()))
	}

	// Constants are computed immediately.
	printExpr("(2 + 3) * x", expr.MustMul(expr.MustAdd(expr.Const(2, *flagShape...), expr.Const(3, *flagShape...)), x))

	must.M(handle.SetValue(tensors.FromScalarAndDimensions(float32(*flagValue)+1, *flagShape...)))
	fmt.Printf("\n%s\n%s\n%s\n", headerStyle.Render("Variables"), arena, arena.Summary())
}
