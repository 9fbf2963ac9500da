package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"koala64/disk"
	"koala64/koala"
)

func koalaImage(bg byte) []byte {
	buf := make([]byte, koala.FileSize)
	buf[0], buf[1] = 0x00, 0x60
	for i := 2; i < len(buf)-1; i++ {
		buf[i] = byte(i)
	}
	buf[len(buf)-1] = bg
	return buf
}

func compressedImage(t *testing.T, raw []byte) []byte {
	t.Helper()
	c, err := koala.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := koala.Compress(&buf, c); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	raw := koalaImage(5)
	packed := compressedImage(t, raw)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"!plain", raw, nil},
		{"%packed", packed, nil},
		{"pic.koa", raw, nil},
		{"pic.koa.z", packed, nil},
		{"!wrong", packed, koala.ErrMalformedContainer},
		{"%wrong", raw, koala.ErrCorruptStream},
	}
	for _, tt := range tests {
		c, err := decodeImage(tt.name, tt.data)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("decodeImage(%s) error = %v, want %v", tt.name, err, tt.wantErr)
			continue
		}
		if err == nil && c.BackgroundColor() != 5 {
			t.Errorf("decodeImage(%s) background = %d, want 5", tt.name, c.BackgroundColor())
		}
	}
}

func TestPackedName(t *testing.T) {
	for name, want := range map[string]string{
		"!girl":   "%girl",
		"girl":    "%girl",
		"%girl":   "%%girl",
		"pic.koa": "%pic.koa",
	} {
		if got := packedName(name); got != want {
			t.Errorf("packedName(%q) = %q, want %q", name, got, want)
		}
	}
}

func testD64(t *testing.T) *disk.D64 {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		"!one":   koalaImage(1),
		"%two":   compressedImage(t, koalaImage(2)),
		"!bad":   koalaImage(3)[:100],
		"readme": []byte("hello"),
	}
	var paths []string
	for _, name := range []string{"!one", "%two", "!bad", "readme"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, files[name], 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	d, err := buildD64("test", "01", paths)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestListDevice(t *testing.T) {
	d := testD64(t)

	var sb strings.Builder
	if err := listDevice(&sb, d, false); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, s := range []string{`"test"`, `"!one"`, `"%two"`, "compressed", "blocks free"} {
		if !strings.Contains(out, s) {
			t.Errorf("listing doesn't contain %s:\n%s", s, out)
		}
	}
	if strings.Contains(out, "readme") {
		t.Errorf("listing shouldn't contain readme without all:\n%s", out)
	}

	sb.Reset()
	if err := listDevice(&sb, d, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "readme") {
		t.Errorf("listing should contain readme with all:\n%s", sb.String())
	}
}

func TestCheckDevice(t *testing.T) {
	d := testD64(t)

	var sb strings.Builder
	failed, err := checkDevice(context.Background(), &sb, d)
	if err != nil {
		t.Fatal(err)
	}
	if failed != 1 {
		t.Errorf("%d failures, want 1:\n%s", failed, sb.String())
	}
	if !strings.Contains(sb.String(), "3 image(s), 1 failed") {
		t.Errorf("unexpected summary:\n%s", sb.String())
	}
}

func TestBuildD64Errors(t *testing.T) {
	dir := t.TempDir()
	long := filepath.Join(dir, "a-very-long-file-name")
	if err := os.WriteFile(long, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := buildD64("x", "01", []string{long}); !errors.Is(err, disk.ErrInvalidName) {
		t.Errorf("buildD64(long name) error = %v, want ErrInvalidName", err)
	}
	if _, err := buildD64("x", "01", []string{filepath.Join(dir, "missing")}); err == nil {
		t.Errorf("buildD64(missing file) should fail")
	}
}
