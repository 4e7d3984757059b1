// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package output holds helpers shared by commands that print
// human readable tables.
package output

import (
	"fmt"
	"io"

	"github.com/juju/ansiterm"
)

// TabWriter returns a new tab writer with common layout definition.
func TabWriter(writer io.Writer) *ansiterm.TabWriter {
	const (
		// To format things into columns.
		minwidth = 0
		tabwidth = 1
		padding  = 2
		padchar  = ' '
		flags    = 0
	)
	return ansiterm.NewTabWriter(writer, minwidth, tabwidth, padding, padchar, flags)
}

// Wrapper provides some helper functions for writing tabular output.
type Wrapper struct {
	*ansiterm.TabWriter
}

// Print writes each value followed by a tab.
func (w *Wrapper) Print(values ...interface{}) {
	for _, v := range values {
		fmt.Fprintf(w, "%v\t", v)
	}
}

// PrintColor writes the value out with the color context specified.
func (w *Wrapper) PrintColor(ctx *ansiterm.Context, value interface{}) {
	if ctx != nil {
		ctx.Fprintf(w.TabWriter, "%v\t", value)
	} else {
		fmt.Fprintf(w, "%v\t", value)
	}
}

// PrintHeaders writes out many tab separated values in the color context
// specified.
func (w *Wrapper) PrintHeaders(ctx *ansiterm.Context, values ...interface{}) {
	for i, v := range values {
		if i != len(values)-1 {
			ctx.Fprintf(w, "%v\t", v)
		} else {
			ctx.Fprintf(w, "%v", v)
		}
	}
	fmt.Fprintln(w)
}

// Println writes many tab separated values finished with a new line.
func (w *Wrapper) Println(values ...interface{}) {
	for i, v := range values {
		if i != len(values)-1 {
			fmt.Fprintf(w, "%v\t", v)
		} else {
			fmt.Fprintf(w, "%v", v)
		}
	}
	fmt.Fprintln(w)
}

// CurrentHighlight is used to highlight the member the status
// was read from.
var CurrentHighlight = ansiterm.Foreground(ansiterm.Green)

// EmphasisHighlight is used to emphasise headers.
var EmphasisHighlight = struct {
	Bold *ansiterm.Context
}{
	Bold: ansiterm.Styles(ansiterm.Bold),
}

// StateColor maps replica set member states to colors.
var StateColor = map[string]*ansiterm.Context{
	"PRIMARY":    ansiterm.Foreground(ansiterm.Green),
	"SECONDARY":  ansiterm.Foreground(ansiterm.Green),
	"ARBITER":    ansiterm.Foreground(ansiterm.Default),
	"STARTUP":    ansiterm.Foreground(ansiterm.Yellow),
	"STARTUP2":   ansiterm.Foreground(ansiterm.Yellow),
	"RECOVERING": ansiterm.Foreground(ansiterm.Yellow),
	"UNKNOWN":    ansiterm.Foreground(ansiterm.BrightRed),
	"DOWN":       ansiterm.Foreground(ansiterm.BrightRed),
	"ROLLBACK":   ansiterm.Foreground(ansiterm.BrightRed),
	"REMOVED":    ansiterm.Foreground(ansiterm.BrightRed),
}

// PrintState writes a member state in its color.
func (w *Wrapper) PrintState(state string) {
	w.PrintColor(StateColor[state], state)
}
