package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"koala64/disk"
	"koala64/emu/rpc"
	"koala64/koala"
)

type styles struct {
	header lipgloss.Style
	name   lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	dim    lipgloss.Style
}

var style = styles{
	header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
	name:   lipgloss.NewStyle().Bold(true),
	ok:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2)),
	err:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
	dim:    lipgloss.NewStyle().Faint(true),
}

// decodeImage decodes data, the content of the image file name. Names
// without marker are decoded according to their size.
func decodeImage(name string, data []byte) (*koala.Container, error) {
	kind, ok := koala.KindOf(name)
	if !ok && len(data) != koala.FileSize {
		kind = koala.Compressed
	}
	if kind == koala.Compressed {
		return koala.Expand(data)
	}
	return koala.Parse(data)
}

func infoMain(args Info) {
	for i, path := range args.Files {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(style.header.Render(path))

		data, err := os.ReadFile(path)
		checkf(err, "failed to read image")
		c, err := decodeImage(filepath.Base(path), data)
		checkf(err, "failed to decode %s", path)
		c.PrintInfos(os.Stdout)
	}
}

// packedName returns the name of the compressed version of the plain image
// file name.
func packedName(name string) string {
	if kind, ok := koala.KindOf(name); ok && kind == koala.Plain {
		name = name[1:]
	}
	return string(koala.CompressedMarker) + name
}

func packMain(args Pack) {
	for _, path := range args.Files {
		c, err := koala.Open(path)
		checkf(err, "failed to open image")

		dir := args.Output
		if dir == "" {
			dir = filepath.Dir(path)
		}
		out := filepath.Join(dir, packedName(filepath.Base(path)))
		checkf(packFile(out, c), "failed to pack %s", path)

		fi, err := os.Stat(out)
		checkf(err, "failed to pack %s", path)
		fmt.Printf("%s -> %s %s\n", path, out,
			style.dim.Render(fmt.Sprintf("(%d bytes, %.0f%%)", fi.Size(), 100*float64(fi.Size())/koala.FileSize)))
	}
}

func packFile(path string, c *koala.Container) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := koala.Compress(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func listMain(args List) {
	dev, err := disk.Open(args.Path)
	checkf(err, "failed to open %s", args.Path)
	checkf(listDevice(os.Stdout, dev, args.All), "failed to list %s", args.Path)
}

func listDevice(w io.Writer, dev disk.Device, all bool) error {
	if d, ok := dev.(*disk.D64); ok {
		fmt.Fprintln(w, style.header.Render(fmt.Sprintf("%q", d.Name())))
	}

	for e, err := range dev.Entries() {
		if err != nil {
			return err
		}
		kind, isImage := koala.KindOf(e.Name)
		if !isImage && !all {
			continue
		}
		desc := style.dim.Render("-")
		if isImage {
			desc = kind.String()
		}
		fmt.Fprintf(w, "%-5d %-18s %s %s\n", e.Blocks, style.name.Render(fmt.Sprintf("%q", e.Name)), e.Type, desc)
	}

	if d, ok := dev.(*disk.D64); ok {
		fmt.Fprintf(w, "%d blocks free.\n", d.BlocksFree())
	}
	return nil
}

func checkMain(args Check) {
	dev, err := disk.Open(args.Path)
	checkf(err, "failed to open %s", args.Path)

	failed, err := checkDevice(context.Background(), os.Stdout, dev)
	checkf(err, "failed to check %s", args.Path)
	if failed > 0 {
		fatalf("%d image(s) failed", failed)
	}
}

// checkDevice loads and decodes all images of dev, it returns the number of
// images that failed.
func checkDevice(ctx context.Context, w io.Writer, dev disk.Device) (int, error) {
	isImage := func(e disk.Entry) bool {
		_, ok := koala.KindOf(e.Name)
		return ok
	}
	decode := func(e disk.Entry, data []byte) error {
		_, err := decodeImage(e.Name, data)
		return err
	}

	results, err := disk.Verify(ctx, dev, isImage, decode)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, r := range results {
		status := style.ok.Render("ok")
		if r.Err != nil {
			failed++
			status = style.err.Render("FAIL") + " " + r.Err.Error()
		}
		fmt.Fprintf(w, "%-18s %5d %s\n", fmt.Sprintf("%q", r.Entry.Name), r.Size, status)
	}
	fmt.Fprintf(w, "%d image(s), %d failed\n", len(results), failed)
	return failed, nil
}

func d64Main(args D64) {
	if !args.Force {
		if _, err := os.Stat(args.Output); err == nil {
			fatalf("%s already exists, use --force to overwrite", args.Output)
		} else if !errors.Is(err, fs.ErrNotExist) {
			checkf(err, "failed to create disk image")
		}
	}

	d, err := buildD64(args.Name, args.ID, args.Files)
	checkf(err, "failed to build disk image")
	checkf(d.Save(args.Output), "failed to write disk image")

	fmt.Printf("%s: %d file(s), %d blocks free\n", args.Output, len(args.Files), d.BlocksFree())
}

func buildD64(name, id string, files []string) (*disk.D64, error) {
	d, err := disk.NewD64(name, id)
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := d.WriteFile(filepath.Base(path), data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return d, nil
}

func configMain(args ConfigCmd, cfg Config, path string) {
	var sb strings.Builder
	_, err := cfg.WriteTo(&sb)
	checkf(err, "failed to encode configuration")
	fmt.Print(sb.String())

	if args.Save {
		checkf(SaveConfig(cfg, path), "failed to save configuration")
		fmt.Fprintln(os.Stderr, "configuration saved to", path)
	}
}

func remoteMain(args Remote, cmd string) {
	client, err := rpc.NewClient(args.Addr)
	checkf(err, "failed to connect to %s", args.Addr)
	defer client.Close()

	switch {
	case strings.HasPrefix(cmd, "remote next"):
		checkf(client.Next(), "remote error")
	case strings.HasPrefix(cmd, "remote status"):
		st, err := client.Status()
		checkf(err, "remote error")
		last := "never"
		if !st.LastFrame.IsZero() {
			last = st.LastFrame.Format(time.DateTime)
		}
		fmt.Printf("%s %d\n", style.header.Render("frames      "), st.Frames)
		fmt.Printf("%s %s\n", style.header.Render("last frame  "), last)
		fmt.Printf("%s %d\n", style.header.Render("pending keys"), st.PendingKeys)
	case strings.HasPrefix(cmd, "remote frame"):
		img, err := client.Frame()
		checkf(err, "remote error")
		checkf(writePNG(args.Frame.Output, img), "failed to save frame")
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
