package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/vaultview/internal/commands"
	"github.com/gerunddev/vaultview/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		commands.Browse(nil)
		return
	}

	command := os.Args[1]

	switch command {
	case "browse", "open":
		commands.Browse(os.Args[2:])
	case "render", "cat":
		commands.Render(os.Args[2:])
	case "outline", "toc":
		commands.Outline(os.Args[2:])
	case "vaults":
		commands.Vaults()
	case "version", "-v", "--version":
		fmt.Printf("vaultview v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`vaultview - Read Obsidian vaults in the terminal

Usage:
  vaultview [command] [options]

Commands:
  browse      Browse a vault (default)
  render      Print a rendered note
  outline     Print the headings of a note
  vaults      List vaults registered with Obsidian
  version     Show version information
  help        Show this help message

Examples:
  vaultview
  vaultview browse Work
  vaultview browse ~/notes
  vaultview render note.md --width 72
  vaultview render note.md --offset 20 --lines 10
  vaultview outline note.md
  vaultview vaults

Configuration:
  Config file: %s
  State file:  %s

For more information, visit: https://github.com/gerunddev/vaultview
`, config.ConfigPath(), config.StateFilePath())
	fmt.Print(usage)
}
