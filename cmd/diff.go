package cmd

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/rubentalstra/OpCore-Simplify/internal/plist"
)

// RunDiff compares two plist files structurally. Both are loaded and
// re-serialized first so binary and XML inputs compare on equal footing
// and formatting noise drops out.
func RunDiff(pathA, pathB string) error {
	docA, err := loadDocument(pathA)
	if err != nil {
		return err
	}
	docB, err := loadDocument(pathB)
	if err != nil {
		return err
	}

	if plist.Equal(docA, docB) {
		Printer.Println("No differences.")
		return nil
	}

	xmlA, err := plist.Save(docA)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", pathA, err)
	}
	xmlB, err := plist.Save(docB)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", pathB, err)
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(xmlA)),
		B:        difflib.SplitLines(string(xmlB)),
		FromFile: pathA,
		ToFile:   pathB,
		Context:  3,
	}
	text, _ := difflib.GetUnifiedDiffString(diff)
	fmt.Print(text)

	return fmt.Errorf("documents differ")
}
