package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gerunddev/vaultview/internal/render"
)

const defaultWidth = 80

// Render prints a note laid out for the terminal
func Render(args []string) {
	cfg := loadConfig()
	if err := runRender(os.Stdout, args, cfg.MaxWidth); err != nil {
		fail("Error", err)
	}
}

func runRender(w io.Writer, args []string, maxWidth int) error {
	positional, flags, err := flagValues(args, "width", "offset", "lines")
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("usage: vaultview render <file> [--width N] [--offset N] [--lines N]")
	}

	tty := stdoutIsTerminal()
	width := defaultWidth
	if tty {
		width = terminalWidth(defaultWidth)
	}
	if width, err = intFlag(flags, "width", width); err != nil {
		return err
	}
	if _, set := flags["width"]; !set && maxWidth > 0 {
		width = min(width, maxWidth)
	}
	offset, err := intFlag(flags, "offset", 0)
	if err != nil {
		return err
	}
	count, err := intFlag(flags, "lines", -1)
	if err != nil {
		return err
	}

	doc, err := readDocument(positional[0])
	if err != nil {
		return err
	}

	var opts []render.Option
	if !tty {
		opts = append(opts, render.WithTheme(render.PlainTheme()))
	}
	view := render.Render(doc.Nodes, width, opts...)

	if count < 0 {
		count = view.Height()
	}
	for _, line := range view.Window(offset, count) {
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}
	return nil
}
