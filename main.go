package main

import (
	"flag"
	"os"

	"github.com/rubentalstra/OpCore-Simplify/cmd"
	"github.com/rubentalstra/OpCore-Simplify/internal/brand"
	"github.com/rubentalstra/OpCore-Simplify/internal/i18n"
)

var printer = i18n.NewCLIPrinter()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "snapshot":
		snapFlags := flag.NewFlagSet("snapshot", flag.ExitOnError)
		configPath := snapFlags.String("config", "", "config.plist to reconcile")
		snapFlags.StringVar(configPath, "c", "", "config.plist to reconcile (short)")
		efiDir := snapFlags.String("efi", "", "EFI folder to reconcile against")
		clean := snapFlags.Bool("clean", false, "discard existing entries and rebuild all sections")
		showDiff := snapFlags.Bool("diff", false, "print a unified diff of the document")
		reportFormat := snapFlags.String("report", "", "emit a change report (yaml or json)")
		dryRun := snapFlags.Bool("dry-run", false, "do not write the file back")
		snapFlags.BoolVar(dryRun, "n", false, "dry run (short)")
		snapFlags.Parse(os.Args[2:])

		err := cmd.RunSnapshot(cmd.SnapshotOptions{
			ConfigPath:   *configPath,
			EFIDir:       *efiDir,
			Clean:        *clean,
			ShowDiff:     *showDiff,
			ReportFormat: *reportFormat,
			DryRun:       *dryRun,
		})
		if err != nil {
			printer.Fprintf(os.Stderr, "Snapshot failed: %v\n", err)
			os.Exit(1)
		}

	case "get":
		getFlags := flag.NewFlagSet("get", flag.ExitOnError)
		configPath := getFlags.String("config", "", "config.plist to read")
		getFlags.Parse(os.Args[2:])
		if *configPath == "" || getFlags.NArg() != 1 {
			printer.Fprintf(os.Stderr, "Usage: %s get -config <file> <path>\n", brand.BinaryName)
			os.Exit(1)
		}
		if err := cmd.RunGet(*configPath, getFlags.Arg(0)); err != nil {
			printer.Fprintf(os.Stderr, "Get failed: %v\n", err)
			os.Exit(1)
		}

	case "set":
		setFlags := flag.NewFlagSet("set", flag.ExitOnError)
		configPath := setFlags.String("config", "", "config.plist to modify")
		setFlags.Parse(os.Args[2:])
		if *configPath == "" || setFlags.NArg() != 3 {
			printer.Fprintf(os.Stderr, "Usage: %s set -config <file> <path> <type> <value>\n", brand.BinaryName)
			os.Exit(1)
		}
		if err := cmd.RunSet(*configPath, setFlags.Arg(0), setFlags.Arg(1), setFlags.Arg(2)); err != nil {
			printer.Fprintf(os.Stderr, "Set failed: %v\n", err)
			os.Exit(1)
		}

	case "delete":
		delFlags := flag.NewFlagSet("delete", flag.ExitOnError)
		configPath := delFlags.String("config", "", "config.plist to modify")
		delFlags.Parse(os.Args[2:])
		if *configPath == "" || delFlags.NArg() != 1 {
			printer.Fprintf(os.Stderr, "Usage: %s delete -config <file> <path>\n", brand.BinaryName)
			os.Exit(1)
		}
		if err := cmd.RunDelete(*configPath, delFlags.Arg(0)); err != nil {
			printer.Fprintf(os.Stderr, "Delete failed: %v\n", err)
			os.Exit(1)
		}

	case "diff":
		diffFlags := flag.NewFlagSet("diff", flag.ExitOnError)
		diffFlags.Parse(os.Args[2:])
		if diffFlags.NArg() != 2 {
			printer.Fprintf(os.Stderr, "Usage: %s diff <a.plist> <b.plist>\n", brand.BinaryName)
			os.Exit(1)
		}
		if err := cmd.RunDiff(diffFlags.Arg(0), diffFlags.Arg(1)); err != nil {
			printer.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

	case "tui":
		tuiFlags := flag.NewFlagSet("tui", flag.ExitOnError)
		configPath := tuiFlags.String("config", "", "config.plist to open")
		efiDir := tuiFlags.String("efi", "", "EFI folder override")
		tuiFlags.Parse(os.Args[2:])
		if err := cmd.RunTui(*configPath, *efiDir); err != nil {
			printer.Fprintf(os.Stderr, "TUI failed: %v\n", err)
			os.Exit(1)
		}

	case "build":
		buildFlags := flag.NewFlagSet("build", flag.ExitOnError)
		settingsPath := buildFlags.String("settings", "", "settings file override")
		buildFlags.Parse(os.Args[2:])
		if err := cmd.RunBuild(*settingsPath); err != nil {
			printer.Fprintf(os.Stderr, "Build failed: %v\n", err)
			os.Exit(1)
		}

	case "version", "--version", "-v":
		cmd.RunVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		printer.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printer.Printf(`%s - %s

Usage:
  %s <command> [options]

Commands:
  snapshot  Reconcile a config.plist against an EFI folder
            Options: -config (-c) <file>, -efi <dir>, -clean, -diff,
                     -report yaml|json, -dry-run (-n)
  get       Print a value from a config.plist
            Usage: get -config <file> <path>
  set       Set a value in a config.plist
            Usage: set -config <file> <path> <bool|int|string|data> <value>
  delete    Delete a value from a config.plist
            Usage: delete -config <file> <path>
  diff      Compare two plist files structurally
  tui       Full-screen interface (editor, build, console)
            Options: -config <file>, -efi <dir>
  build     Run the external build pipeline
            Options: -settings <file>
  version   Show version information

Paths are dot-separated, with numeric segments indexing arrays,
e.g. "Kernel.Add.0.Enabled".
`, brand.Name, brand.Description, brand.BinaryName)
}
