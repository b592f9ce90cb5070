package main

import (
	"fmt"
	"io"
)

// terminalAlerter prints panel alerts.
type terminalAlerter struct {
	out io.Writer
}

func (a terminalAlerter) Alert(title, message string) {
	fmt.Fprintf(a.out, "%s: %s\n", title, message)
}

// terminalWait prints the wait message while a save is in flight.
type terminalWait struct {
	out io.Writer
}

func (w terminalWait) Show(message string) {
	fmt.Fprintln(w.out, message)
}

func (w terminalWait) Hide() {}
