package commands

import (
	"errors"
	"os"
)

// Outline prints the heading tree of a note
func Outline(args []string) {
	if len(args) != 1 {
		fail("Error", errors.New("usage: vaultview outline <file>"))
	}
	doc, err := readDocument(args[0])
	if err != nil {
		fail("Error", err)
	}
	if err := writeOutline(os.Stdout, doc); err != nil {
		fail("Error", err)
	}
}
