package tui

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/rubentalstra/OpCore-Simplify/internal/plist"
)

// valueEdit holds the in-flight edit of a single scalar node.
type valueEdit struct {
	Path    string
	Kind    string // "bool", "integer", "string", "data"
	Text    string
	BoolVal bool
}

// newValueEdit prepares an edit buffer for a scalar node. Containers
// are not editable, only navigable.
func newValueEdit(path string, v plist.Value) (*valueEdit, bool) {
	switch val := v.(type) {
	case plist.Bool:
		return &valueEdit{Path: path, Kind: "bool", BoolVal: bool(val)}, true
	case plist.Integer:
		return &valueEdit{Path: path, Kind: "integer", Text: strconv.FormatInt(int64(val), 10)}, true
	case plist.String:
		return &valueEdit{Path: path, Kind: "string", Text: string(val)}, true
	case plist.Data:
		return &valueEdit{Path: path, Kind: "data", Text: base64.StdEncoding.EncodeToString(val)}, true
	default:
		return nil, false
	}
}

// Form builds the huh form for this edit.
func (e *valueEdit) Form() *huh.Form {
	title := fmt.Sprintf("%s (%s)", e.Path, e.Kind)

	var field huh.Field
	switch e.Kind {
	case "bool":
		field = huh.NewConfirm().
			Title(title).
			Affirmative("true").
			Negative("false").
			Value(&e.BoolVal)
	case "integer":
		field = huh.NewInput().
			Title(title).
			Validate(func(s string) error {
				_, err := strconv.ParseInt(s, 10, 64)
				return err
			}).
			Value(&e.Text)
	case "data":
		field = huh.NewInput().
			Title(title).
			Description("base64").
			Validate(func(s string) error {
				_, err := base64.StdEncoding.DecodeString(s)
				return err
			}).
			Value(&e.Text)
	default:
		field = huh.NewInput().
			Title(title).
			Value(&e.Text)
	}

	return huh.NewForm(huh.NewGroup(field))
}

// Value converts the edit buffer back into a plist node.
func (e *valueEdit) Value() (plist.Value, error) {
	switch e.Kind {
	case "bool":
		return plist.Bool(e.BoolVal), nil
	case "integer":
		n, err := strconv.ParseInt(e.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %w", err)
		}
		return plist.Integer(n), nil
	case "data":
		raw, err := base64.StdEncoding.DecodeString(e.Text)
		if err != nil {
			return nil, fmt.Errorf("not valid base64: %w", err)
		}
		return plist.Data(raw), nil
	default:
		return plist.String(e.Text), nil
	}
}
