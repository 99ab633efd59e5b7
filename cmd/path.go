package cmd

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/rubentalstra/OpCore-Simplify/internal/plist"
)

// RunGet prints the value at a dotted path in a config.plist.
func RunGet(configPath, path string) error {
	doc, err := loadDocument(configPath)
	if err != nil {
		return err
	}

	v, err := plist.GetPath(doc, path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	switch val := v.(type) {
	case plist.Bool:
		Printer.Printf("%t\n", bool(val))
	case plist.Integer:
		Printer.Printf("%d\n", int64(val))
	case plist.String:
		Printer.Printf("%s\n", string(val))
	case plist.Data:
		Printer.Printf("%s\n", base64.StdEncoding.EncodeToString(val))
	default:
		// Containers print as an XML fragment
		out, err := plist.Save(v)
		if err != nil {
			return fmt.Errorf("serialize %s: %w", path, err)
		}
		fmt.Print(string(out))
	}
	return nil
}

// RunSet updates the value at a dotted path and writes the file back.
// Intermediate dictionaries are created as needed.
func RunSet(configPath, path, typ, raw string) error {
	doc, err := loadDocument(configPath)
	if err != nil {
		return err
	}

	v, err := parseValue(typ, raw)
	if err != nil {
		return err
	}

	if err := plist.SetPath(doc, path, v); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return saveDocument(configPath, doc)
}

// RunDelete removes the value at a dotted path and writes the file back.
func RunDelete(configPath, path string) error {
	doc, err := loadDocument(configPath)
	if err != nil {
		return err
	}

	if err := plist.DeletePath(doc, path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return saveDocument(configPath, doc)
}

func parseValue(typ, raw string) (plist.Value, error) {
	switch typ {
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", raw)
		}
		return plist.Bool(b), nil
	case "int", "integer":
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		return plist.Integer(n), nil
	case "string":
		return plist.String(raw), nil
	case "data":
		data, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 %q", raw)
		}
		return plist.Data(data), nil
	default:
		return nil, fmt.Errorf("unknown type %q (bool, int, string, data)", typ)
	}
}
