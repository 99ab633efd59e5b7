package plist

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

func sampleConfig() *Dict {
	acpiEntry := NewDict()
	acpiEntry.Set("Comment", String("SSDT-EC.aml"))
	acpiEntry.Set("Enabled", Bool(true))
	acpiEntry.Set("Path", String("SSDT-EC.aml"))

	acpi := NewDict()
	acpi.Set("Add", Array{acpiEntry})

	root := NewDict()
	// Keys deliberately not alphabetical; order must survive a round trip.
	root.Set("UEFI", NewDict())
	root.Set("ACPI", acpi)
	root.Set("ScanPolicy", Integer(0))
	root.Set("SecureBootModel", String("Disabled"))
	root.Set("BootArgs", String("-v keepsyms=1"))
	root.Set("Seed", Data{0xDE, 0xAD, 0xBE, 0xEF})
	root.Set("HideAuxiliary", Bool(false))
	return root
}

func TestRoundTrip(t *testing.T) {
	doc := sampleConfig()

	out, err := Save(doc)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	back, err := Load(out)
	if err != nil {
		t.Fatalf("Load(Save(doc)) error = %v", err)
	}
	if !Equal(doc, back) {
		t.Fatalf("round trip changed the document:\n%s", out)
	}

	// A second cycle must be byte-stable.
	out2, err := Save(back)
	if err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	if string(out) != string(out2) {
		t.Error("Save() output differs between cycles")
	}
}

func TestRoundTripKeyOrder(t *testing.T) {
	doc := sampleConfig()
	out, err := Save(doc)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	back, err := LoadDict(out)
	if err != nil {
		t.Fatalf("LoadDict() error = %v", err)
	}
	want := doc.Keys()
	got := back.Keys()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q (no resorting allowed)", i, got[i], want[i])
		}
	}
}

func TestSaveEscaping(t *testing.T) {
	doc := NewDict()
	doc.Set("Boot<Args>", String(`-v "quoted" & <tagged>`))
	out, err := Save(doc)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	back, err := LoadDict(out)
	if err != nil {
		t.Fatalf("LoadDict() error = %v", err)
	}
	if !Equal(doc, back) {
		t.Errorf("escaped content did not round trip:\n%s", out)
	}
}

func TestLoadEmptyContainers(t *testing.T) {
	src := `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>Add</key>
	<array/>
	<key>Quirks</key>
	<dict/>
</dict>
</plist>`
	root, err := LoadDict([]byte(src))
	if err != nil {
		t.Fatalf("LoadDict() error = %v", err)
	}
	if arr := root.GetArray("Add"); arr == nil || len(arr) != 0 {
		t.Errorf("Add = %v, want empty array", arr)
	}
	if d := root.GetDict("Quirks"); d == nil || d.Len() != 0 {
		t.Errorf("Quirks = %v, want empty dict", d)
	}
}

func TestLoadParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"not xml", "this is not a plist"},
		{"wrong root", "<html></html>"},
		{"bad integer", "<plist><dict><key>N</key><integer>twelve</integer></dict></plist>"},
		{"duplicate key", "<plist><dict><key>A</key><true/><key>A</key><false/></dict></plist>"},
		{"key without value", "<plist><dict><key>A</key></dict></plist>"},
		{"unsupported real", "<plist><real>1.5</real></plist>"},
		{"bad base64", "<plist><data>!!!</data></plist>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.src))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Load() error = %v, want *ParseError", err)
			}
		})
	}
}

func TestLoadDictRejectsNonDictRoot(t *testing.T) {
	_, err := LoadDict([]byte("<plist><array/></plist>"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("LoadDict() error = %v, want *ParseError", err)
	}
	if !strings.Contains(err.Error(), "want dict") {
		t.Errorf("error = %q, want mention of dict root", err)
	}
}

// buildBinaryFixture assembles a minimal bplist00 document by hand:
// a dict with the stored key order {"Zulu": true, "Alpha": "hi"}.
func buildBinaryFixture() []byte {
	var b []byte
	b = append(b, "bplist00"...)
	// obj 0 @8: dict, 2 entries, keyrefs 1,2 valrefs 3,4
	b = append(b, 0xD2, 0x01, 0x02, 0x03, 0x04)
	// obj 1 @13: ascii "Zulu"
	b = append(b, 0x54)
	b = append(b, "Zulu"...)
	// obj 2 @18: ascii "Alpha"
	b = append(b, 0x55)
	b = append(b, "Alpha"...)
	// obj 3 @24: true
	b = append(b, 0x09)
	// obj 4 @25: ascii "hi"
	b = append(b, 0x52)
	b = append(b, "hi"...)
	// offset table @28
	b = append(b, 8, 13, 18, 24, 25)
	// trailer
	trailer := make([]byte, 32)
	trailer[6] = 1 // offset int size
	trailer[7] = 1 // object ref size
	binary.BigEndian.PutUint64(trailer[8:16], 5)   // object count
	binary.BigEndian.PutUint64(trailer[16:24], 0)  // top object
	binary.BigEndian.PutUint64(trailer[24:32], 28) // offset table start
	return append(b, trailer...)
}

func TestLoadBinary(t *testing.T) {
	root, err := LoadDict(buildBinaryFixture())
	if err != nil {
		t.Fatalf("LoadDict(binary) error = %v", err)
	}
	keys := root.Keys()
	if len(keys) != 2 || keys[0] != "Zulu" || keys[1] != "Alpha" {
		t.Fatalf("Keys() = %v, want [Zulu Alpha] in stored order", keys)
	}
	if !root.GetBool("Zulu") {
		t.Error("Zulu = false, want true")
	}
	if got := root.GetString("Alpha"); got != "hi" {
		t.Errorf("Alpha = %q, want %q", got, "hi")
	}
}

func TestLoadBinaryTruncated(t *testing.T) {
	fix := buildBinaryFixture()
	_, err := Load(fix[:20])
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Load(truncated) error = %v, want *ParseError", err)
	}
}

func TestLoadBinaryOversizedObjectCount(t *testing.T) {
	// An object count of 1<<61 with 8-byte offsets wraps the table-end
	// computation to a small number; the count itself must be rejected
	// before any allocation sized by it.
	var b []byte
	b = append(b, "bplist00"...)
	b = append(b, make([]byte, 8)...)
	trailer := make([]byte, 32)
	trailer[6] = 8 // offset int size
	trailer[7] = 1 // object ref size
	binary.BigEndian.PutUint64(trailer[8:16], 1<<61) // object count
	binary.BigEndian.PutUint64(trailer[16:24], 0)    // top object
	binary.BigEndian.PutUint64(trailer[24:32], 8)    // offset table start
	b = append(b, trailer...)

	_, err := Load(b)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Load(huge object count) error = %v, want *ParseError", err)
	}
}

func TestLoadBinaryOversizedContainerCount(t *testing.T) {
	// Container length markers carry an attacker-controlled 64-bit count;
	// a count far past the document size must fail, not allocate.
	build := func(marker byte) []byte {
		var b []byte
		b = append(b, "bplist00"...)
		// obj 0 @8: container with 8-byte extended length 0xFFFFFFFFFFFFFFFF
		b = append(b, marker, 0x13)
		b = append(b, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		// offset table @18
		b = append(b, 8)
		trailer := make([]byte, 32)
		trailer[6] = 1 // offset int size
		trailer[7] = 1 // object ref size
		binary.BigEndian.PutUint64(trailer[8:16], 1)   // object count
		binary.BigEndian.PutUint64(trailer[16:24], 0)  // top object
		binary.BigEndian.PutUint64(trailer[24:32], 18) // offset table start
		return append(b, trailer...)
	}

	for name, marker := range map[string]byte{"array": 0xAF, "dict": 0xDF, "data": 0x4F} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(build(marker))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Load(huge %s count) error = %v, want *ParseError", name, err)
			}
		})
	}
}

func TestLoadXMLNestingTooDeep(t *testing.T) {
	const levels = 600
	doc := "<plist>" + strings.Repeat("<array>", levels) + strings.Repeat("</array>", levels) + "</plist>"
	_, err := Load([]byte(doc))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Load(deeply nested) error = %v, want *ParseError", err)
	}
}

func TestLoadBinaryThenSaveXML(t *testing.T) {
	root, err := LoadDict(buildBinaryFixture())
	if err != nil {
		t.Fatalf("LoadDict(binary) error = %v", err)
	}
	out, err := Save(root)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	back, err := LoadDict(out)
	if err != nil {
		t.Fatalf("LoadDict(xml) error = %v", err)
	}
	if !Equal(root, back) {
		t.Error("binary document changed across an XML round trip")
	}
}
