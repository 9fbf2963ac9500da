package disk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for name, data := range map[string][]byte{
		"!alpha": payload(10003, 1),
		"%beta":  payload(500, 2),
		"notes":  []byte("hello"),
	} {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestDir(t *testing.T) {
	dev := Dir{Path: testDir(t)}

	var got []Entry
	for e, err := range dev.Entries() {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, e)
	}
	// os.ReadDir sorts by name.
	want := []Entry{
		{"!alpha", PRG, 40},
		{"%beta", PRG, 2},
		{"notes", PRG, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	buf := make([]byte, 0x10000)
	n, err := dev.Load("!alpha", buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf[:n], payload(10003, 1)) {
		t.Errorf("Load content mismatch")
	}

	// Exact fit.
	if n, err := dev.Load("notes", buf[:5]); err != nil || n != 5 {
		t.Errorf("Load(notes) = %d, %v", n, err)
	}

	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{"missing", buf, ErrNotFound},
		{"../etc", buf, ErrInvalidName},
		{"", buf, ErrInvalidName},
		{"notes", buf[:4], ErrFileTooLarge},
	}
	for _, tt := range tests {
		if _, err := dev.Load(tt.name, tt.buf); !errors.Is(err, tt.want) {
			t.Errorf("Load(%q) error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestOpen(t *testing.T) {
	dir := testDir(t)
	if dev, err := Open(dir); err != nil {
		t.Errorf("Open(dir) error: %v", err)
	} else if _, ok := dev.(Dir); !ok {
		t.Errorf("Open(dir) = %T, want Dir", dev)
	}

	d, err := NewD64("x", "01")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "IMAGE.D64")
	if err := d.Save(path); err != nil {
		t.Fatal(err)
	}
	if dev, err := Open(path); err != nil {
		t.Errorf("Open(d64) error: %v", err)
	} else if _, ok := dev.(*D64); !ok {
		t.Errorf("Open(d64) = %T, want *D64", dev)
	}

	if _, err := Open(filepath.Join(dir, "notes")); err == nil {
		t.Errorf("Open(regular file) should fail")
	}
}

func TestDrivesLoad(t *testing.T) {
	drives := NewDrives()
	drives.Attach(DefaultDevice, Dir{Path: testDir(t)})
	buf := make([]byte, 0x10000)

	n, err := drives.Load("!alpha", DefaultDevice, buf)
	if err != nil || n != 10003 {
		t.Fatalf("Load = %d, %v", n, err)
	}

	_, err = drives.Load("missing", DefaultDevice, buf)
	if !errors.Is(err, ErrLoadFailure) || !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrLoadFailure and ErrNotFound", err)
	}
	var lerr *LoadError
	if !errors.As(err, &lerr) || lerr.Device != DefaultDevice || lerr.Name != "missing" {
		t.Errorf("Load(missing) error = %#v", err)
	}

	_, err = drives.Load("!alpha", 9, buf)
	if !errors.Is(err, ErrLoadFailure) || !errors.Is(err, ErrNoDevice) {
		t.Errorf("Load(device 9) error = %v, want ErrLoadFailure and ErrNoDevice", err)
	}
}

func TestDrivesStatusQuirk(t *testing.T) {
	drives := NewDrives()
	drives.StatusQuirk = true
	drives.Attach(DefaultDevice, Dir{Path: testDir(t)})

	n, err := drives.Load("missing", DefaultDevice, make([]byte, 100))
	if err != nil || n != 0 {
		t.Errorf("Load with quirk = %d, %v, want 0, nil", n, err)
	}
}

func TestVerify(t *testing.T) {
	d, err := NewD64("verify", "01")
	if err != nil {
		t.Fatal(err)
	}
	for i := range 12 {
		size := 300
		if i%3 == 0 {
			size = 301
		}
		if err := d.WriteFile(fmt.Sprintf("!f%02d", i), payload(size, byte(i))); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.WriteFile("skipped", nil); err != nil {
		t.Fatal(err)
	}

	errSize := errors.New("bad size")
	filter := func(e Entry) bool { return e.Name[0] == '!' }
	decode := func(e Entry, data []byte) error {
		if len(data) != 300 {
			return errSize
		}
		return nil
	}

	results, err := Verify(context.Background(), d, filter, decode)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 12 {
		t.Fatalf("%d results, want 12", len(results))
	}
	for i, r := range results {
		if want := fmt.Sprintf("!f%02d", i); r.Entry.Name != want {
			t.Errorf("result %d is %s, want %s", i, r.Entry.Name, want)
		}
		if fail := i%3 == 0; fail != errors.Is(r.Err, errSize) {
			t.Errorf("%s: err = %v", r.Entry.Name, r.Err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Verify(ctx, d, filter, decode); !errors.Is(err, context.Canceled) {
		t.Errorf("Verify(cancelled) error = %v, want context.Canceled", err)
	}
}
