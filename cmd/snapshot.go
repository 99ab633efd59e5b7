package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v2"

	"github.com/rubentalstra/OpCore-Simplify/internal/logging"
	"github.com/rubentalstra/OpCore-Simplify/internal/plist"
	"github.com/rubentalstra/OpCore-Simplify/internal/snapshot"
)

// SnapshotOptions are the flags of the snapshot subcommand.
type SnapshotOptions struct {
	ConfigPath   string
	EFIDir       string
	Clean        bool
	ShowDiff     bool
	ReportFormat string // "", "yaml" or "json"
	DryRun       bool
}

// RunSnapshot reconciles a config.plist against an EFI folder.
func RunSnapshot(opts SnapshotOptions) error {
	if opts.ConfigPath == "" || opts.EFIDir == "" {
		return fmt.Errorf("both -config and -efi are required")
	}
	if opts.ReportFormat != "" && opts.ReportFormat != "yaml" && opts.ReportFormat != "json" {
		return fmt.Errorf("invalid -report format %q (yaml or json)", opts.ReportFormat)
	}

	doc, err := loadDocument(opts.ConfigPath)
	if err != nil {
		return err
	}

	var before []byte
	if opts.ShowDiff {
		if before, err = plist.Save(doc); err != nil {
			return fmt.Errorf("serialize document: %w", err)
		}
	}

	layout, err := snapshot.ResolveLayout(opts.EFIDir)
	if err != nil {
		return err
	}

	mode := snapshot.ModeMerge
	if opts.Clean {
		mode = snapshot.ModeClean
	}

	report, err := snapshot.Snapshot(doc, layout, mode)
	if err != nil {
		return err
	}
	logging.SnapshotLog("info", "%s snapshot of %s against %s: %s",
		mode, opts.ConfigPath, layout.Root, report.Summary())

	if opts.ShowDiff {
		after, err := plist.Save(doc)
		if err != nil {
			return fmt.Errorf("serialize document: %w", err)
		}
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(before)),
			B:        difflib.SplitLines(string(after)),
			FromFile: opts.ConfigPath,
			ToFile:   opts.ConfigPath + " (snapshot)",
			Context:  3,
		}
		text, _ := difflib.GetUnifiedDiffString(diff)
		if text == "" {
			Printer.Println("No changes.")
		} else {
			fmt.Print(text)
		}
	}

	switch opts.ReportFormat {
	case "yaml":
		out, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		os.Stdout.Write(out)
	case "json":
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		os.Stdout.Write(append(out, '\n'))
	default:
		Printer.Printf("%s\n", report.Summary())
	}

	if opts.DryRun {
		Printer.Println("Dry run, not writing.")
		return nil
	}
	if !report.Changed() && !opts.Clean {
		return nil
	}
	return saveDocument(opts.ConfigPath, doc)
}
