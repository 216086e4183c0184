package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/gerunddev/vaultview/internal/config"
	"github.com/gerunddev/vaultview/internal/logger"
	"github.com/gerunddev/vaultview/internal/markdown"
	"github.com/gerunddev/vaultview/internal/styles"
)

// fail prints a styled error and exits
func fail(msg string, err error) {
	if err != nil {
		msg += ": " + err.Error()
	}
	fmt.Println(styles.ErrorStyle.Render("✗ " + msg))
	os.Exit(1)
}

// loadConfig loads the configuration or exits
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fail("Error loading config", err)
	}
	return cfg
}

// openLogger opens the configured log file, falling back to a discarding
// logger when it cannot be created
func openLogger(cfg *config.Config) (*logger.Logger, func()) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogFile == "" {
		return logger.Discard(), func() {}
	}
	log, cleanup, err := logger.NewFileLogger(cfg.LogFile, level)
	if err != nil {
		return logger.Discard(), func() {}
	}
	return log, cleanup
}

// flagValues splits args into positional arguments and --name value pairs.
// Both "--name value" and "--name=value" are accepted
func flagValues(args []string, names ...string) ([]string, map[string]string, error) {
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}

	var positional []string
	flags := make(map[string]string)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			positional = append(positional, arg)
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if !known[name] {
			return nil, nil, fmt.Errorf("unknown flag: --%s", name)
		}
		if !hasValue {
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("flag --%s needs a value", name)
			}
			i++
			value = args[i]
		}
		flags[name] = value
	}
	return positional, flags, nil
}

// intFlag parses an integer flag, returning def when it is absent
func intFlag(flags map[string]string, name string, def int) (int, error) {
	s, ok := flags[name]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid --%s: %q", name, s)
	}
	return n, nil
}

// readDocument parses the note at path
func readDocument(path string) (*markdown.Document, error) {
	if path == "" {
		return nil, errors.New("missing file argument")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read note: %w", err)
	}
	return markdown.Parse(data), nil
}

// stdoutIsTerminal is overridable by tests
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(os.Stdout.Fd())
}

// terminalWidth reports the width of stdout, or def when it is not a terminal
var terminalWidth = func(def int) int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return def
	}
	return w
}

// writeOutline prints the heading tree of doc, indenting nested sections
func writeOutline(w io.Writer, doc *markdown.Document) error {
	type item struct {
		entry *markdown.OutlineEntry
		depth int
	}
	roots := markdown.Outline(doc.Nodes)
	stack := make([]item, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, item{roots[i], 0})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		line := strings.Repeat("  ", it.depth) + strings.Repeat("#", it.entry.Level) + " " + it.entry.Title
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		for i := len(it.entry.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.entry.Children[i], it.depth + 1})
		}
	}
	return nil
}
