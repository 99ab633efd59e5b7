package plist

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var binaryMagic = []byte("bplist0")

// Load parses a serialized property list. Binary (bplist00) and XML inputs
// are detected automatically; both preserve dictionary key order as stored.
func Load(data []byte) (Value, error) {
	if bytes.HasPrefix(data, binaryMagic) {
		return decodeBinary(data)
	}
	return decodeXML(data)
}

// LoadDict parses data and requires the root to be a dictionary, which is
// what an OpenCore config.plist always is.
func LoadDict(data []byte) (*Dict, error) {
	v, err := Load(data)
	if err != nil {
		return nil, err
	}
	root, ok := v.(*Dict)
	if !ok {
		return nil, parseErrf("xml", "root element is %s, want dict", TypeName(v))
	}
	return root, nil
}

// Save serializes v as an XML property list. Key order and array order are
// written exactly as they appear in the tree.
func Save(v Value) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	buf.WriteString(`<plist version="1.0">` + "\n")
	if err := encodeValue(&buf, v, 0); err != nil {
		return nil, err
	}
	buf.WriteString("</plist>\n")
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v Value, depth int) error {
	indent := strings.Repeat("\t", depth)
	switch val := v.(type) {
	case Bool:
		if val {
			buf.WriteString(indent + "<true/>\n")
		} else {
			buf.WriteString(indent + "<false/>\n")
		}
	case Integer:
		fmt.Fprintf(buf, "%s<integer>%d</integer>\n", indent, int64(val))
	case String:
		buf.WriteString(indent + "<string>")
		if err := xml.EscapeText(buf, []byte(val)); err != nil {
			return err
		}
		buf.WriteString("</string>\n")
	case Data:
		fmt.Fprintf(buf, "%s<data>%s</data>\n", indent, base64.StdEncoding.EncodeToString(val))
	case Array:
		if len(val) == 0 {
			buf.WriteString(indent + "<array/>\n")
			return nil
		}
		buf.WriteString(indent + "<array>\n")
		for _, item := range val {
			if err := encodeValue(buf, item, depth+1); err != nil {
				return err
			}
		}
		buf.WriteString(indent + "</array>\n")
	case *Dict:
		if val.Len() == 0 {
			buf.WriteString(indent + "<dict/>\n")
			return nil
		}
		buf.WriteString(indent + "<dict>\n")
		for _, key := range val.Keys() {
			buf.WriteString(indent + "\t<key>")
			if err := xml.EscapeText(buf, []byte(key)); err != nil {
				return err
			}
			buf.WriteString("</key>\n")
			item, _ := val.Get(key)
			if err := encodeValue(buf, item, depth+1); err != nil {
				return err
			}
		}
		buf.WriteString(indent + "</dict>\n")
	default:
		return fmt.Errorf("plist: cannot encode %T", v)
	}
	return nil
}

func decodeXML(data []byte) (Value, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	// Find the <plist> root element.
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, parseErrf("xml", "missing <plist> root element")
		}
		if err != nil {
			return nil, &ParseError{Format: "xml", Detail: "malformed document", Err: err}
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local != "plist" {
				return nil, parseErrf("xml", "unexpected root element <%s>", start.Name.Local)
			}
			break
		}
	}
	v, err := decodeXMLValue(dec, 0)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, parseErrf("xml", "empty <plist> element")
	}
	return v, nil
}

// maxXMLDepth bounds container nesting the same way maxBinaryDepth does, so
// a deeply nested document cannot blow the stack.
const maxXMLDepth = 512

// decodeXMLValue reads the next value element. It returns nil (no error)
// when the enclosing end element is reached instead of a value.
func decodeXMLValue(dec *xml.Decoder, depth int) (Value, error) {
	if depth > maxXMLDepth {
		return nil, parseErrf("xml", "element nesting too deep")
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, &ParseError{Format: "xml", Detail: "malformed document", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return decodeXMLElement(dec, t, depth)
		case xml.EndElement:
			return nil, nil
		case xml.CharData, xml.Comment, xml.ProcInst, xml.Directive:
			// Whitespace between elements.
		}
	}
}

func decodeXMLElement(dec *xml.Decoder, start xml.StartElement, depth int) (Value, error) {
	switch start.Name.Local {
	case "true":
		if err := dec.Skip(); err != nil {
			return nil, &ParseError{Format: "xml", Detail: "malformed <true/>", Err: err}
		}
		return Bool(true), nil
	case "false":
		if err := dec.Skip(); err != nil {
			return nil, &ParseError{Format: "xml", Detail: "malformed <false/>", Err: err}
		}
		return Bool(false), nil
	case "integer":
		text, err := elementText(dec)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(text), 0, 64)
		if err != nil {
			return nil, parseErrf("xml", "invalid integer %q", strings.TrimSpace(text))
		}
		return Integer(n), nil
	case "string":
		text, err := elementText(dec)
		if err != nil {
			return nil, err
		}
		return String(text), nil
	case "data":
		text, err := elementText(dec)
		if err != nil {
			return nil, err
		}
		clean := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
				return -1
			}
			return r
		}, text)
		raw, err := base64.StdEncoding.DecodeString(clean)
		if err != nil {
			return nil, &ParseError{Format: "xml", Detail: "invalid base64 in <data>", Err: err}
		}
		return Data(raw), nil
	case "array":
		arr := Array{}
		for {
			item, err := decodeXMLValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			if item == nil {
				return arr, nil
			}
			arr = append(arr, item)
		}
	case "dict":
		return decodeXMLDict(dec, depth)
	default:
		// real, date and friends are not part of the supported leaf set.
		return nil, parseErrf("xml", "unsupported element <%s>", start.Name.Local)
	}
}

func decodeXMLDict(dec *xml.Decoder, depth int) (*Dict, error) {
	d := NewDict()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, &ParseError{Format: "xml", Detail: "malformed <dict>", Err: err}
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return d, nil
		case xml.StartElement:
			if t.Name.Local != "key" {
				return nil, parseErrf("xml", "expected <key> in <dict>, got <%s>", t.Name.Local)
			}
			key, err := elementText(dec)
			if err != nil {
				return nil, err
			}
			if d.Has(key) {
				return nil, parseErrf("xml", "duplicate key %q in <dict>", key)
			}
			val, err := decodeXMLValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			if val == nil {
				return nil, parseErrf("xml", "key %q has no value", key)
			}
			d.Set(key, val)
		case xml.CharData, xml.Comment, xml.ProcInst, xml.Directive:
			// Whitespace between entries.
		}
	}
}

// elementText consumes the current element and returns its character data.
func elementText(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", &ParseError{Format: "xml", Detail: "malformed element text", Err: err}
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return sb.String(), nil
		case xml.StartElement:
			return "", parseErrf("xml", "unexpected nested element <%s>", t.Name.Local)
		}
	}
}
