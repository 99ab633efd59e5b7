package tui

import (
	"testing"

	"github.com/rubentalstra/OpCore-Simplify/internal/plist"
)

func TestNewValueEdit(t *testing.T) {
	tests := []struct {
		name string
		in   plist.Value
		kind string
		text string
		ok   bool
	}{
		{"bool", plist.Bool(true), "bool", "", true},
		{"integer", plist.Integer(42), "integer", "42", true},
		{"string", plist.String("hi"), "string", "hi", true},
		{"data", plist.Data{0x01, 0x02}, "data", "AQI=", true},
		{"dict", plist.NewDict(), "", "", false},
		{"array", plist.Array{}, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := newValueEdit("Misc.X", tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if e.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", e.Kind, tt.kind)
			}
			if e.Text != tt.text {
				t.Errorf("text = %q, want %q", e.Text, tt.text)
			}
		})
	}
}

func TestValueEditRoundTrip(t *testing.T) {
	for _, v := range []plist.Value{
		plist.Bool(false),
		plist.Integer(-7),
		plist.String("OpenCanopy.efi"),
		plist.Data{0xDE, 0xAD},
	} {
		e, ok := newValueEdit("p", v)
		if !ok {
			t.Fatalf("newValueEdit(%v) not editable", v)
		}
		got, err := e.Value()
		if err != nil {
			t.Fatalf("Value(): %v", err)
		}
		if !plist.Equal(got, v) {
			t.Errorf("round trip: got %v, want %v", got, v)
		}
	}
}

func TestValueEditBadInput(t *testing.T) {
	e := &valueEdit{Path: "p", Kind: "integer", Text: "twelve"}
	if _, err := e.Value(); err == nil {
		t.Error("expected error for non-integer text")
	}

	e = &valueEdit{Path: "p", Kind: "data", Text: "!!!"}
	if _, err := e.Value(); err == nil {
		t.Error("expected error for invalid base64")
	}
}
