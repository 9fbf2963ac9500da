package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

func TestFieldValue(t *testing.T) {
	tests := []struct {
		f    field
		want string
	}{
		{field{kind: kindString, str: "border"}, "border"},
		{field{kind: kindInt, num: uint64(0xFFFFFFFFFFFFFFFF)}, "-1"},
		{field{kind: kindUint, num: 8}, "8"},
		{field{kind: kindHex8, num: 0x1B}, "$1B"},
		{field{kind: kindHex16, num: 0xD020}, "$D020"},
		{field{kind: kindError}, "<nil>"},
		{field{kind: kindError, err: errors.New("boom")}, "boom"},
		{field{kind: kindDuration, num: uint64(1500 * time.Millisecond)}, "1.5s"},
		{field{kind: kindBlob, any: []byte{0x20, 0x0D}}, "$20 $0D"},
	}
	for _, tt := range tests {
		if got := tt.f.value(); got != tt.want {
			t.Errorf("value(%+v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestModules(t *testing.T) {
	mod, ok := ModuleByName("vic")
	if !ok || mod != ModVIC {
		t.Fatalf("ModuleByName(vic) = %v, %t", mod, ok)
	}
	if _, ok := ModuleByName("?"); ok {
		t.Errorf("ModuleByName(?) should fail")
	}

	custom := NewModule("custom")
	if got := custom.String(); got != "custom" {
		t.Errorf("String() = %q, want custom", got)
	}
	names := ModuleNames()
	if names[0] != "config" || names[len(names)-1] != "custom" {
		t.Errorf("ModuleNames() = %v", names)
	}
}

func TestEntry(t *testing.T) {
	var buf bytes.Buffer
	logrus.SetOutput(&buf)
	t.Cleanup(func() { logrus.SetOutput(logrus.New().Out) })

	if ModShow.DebugZ("hidden").Int("n", 1) != nil {
		t.Fatalf("debug entry of a disabled module should be nil")
	}
	ModShow.DebugZ("hidden").Hex16("addr", 0x6000).End()
	if buf.Len() != 0 {
		t.Fatalf("disabled module logged: %s", buf.String())
	}

	ModShow.WarnZ("load failed").String("file", "!pic").Hex8("val", 2).End()
	out := buf.String()
	for _, want := range []string{"load failed", "_mod=show", `file="!pic"`, `val="$02"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q doesn't contain %q", out, want)
		}
	}

	EnableDebugModules(ModShow.Mask())
	t.Cleanup(func() { debugMask = 0 })
	buf.Reset()
	ModShow.DebugZ("visible").End()
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("enabled module didn't log: %q", buf.String())
	}
}
