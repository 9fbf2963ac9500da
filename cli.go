package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"koala64/emu/log"
	"koala64/emu/rpc"
	"koala64/hw"
	"koala64/show"
	"koala64/ui/shaders"
)

type mode byte

const (
	showMode    mode = iota // Run the slideshow
	listMode                // List images of a drive
	infoMode                // Show image file infos
	packMode                // Compress image files
	checkMode               // Verify all images of a drive
	d64Mode                 // Build a D64 disk image
	configMode              // Print the configuration
	remoteMode              // Control a running slideshow
	versionMode             // Show koala64 version
)

type (
	CLI struct {
		Show    Show      `cmd:"" help:"Run the slideshow. (default command)" default:"withargs"`
		List    List      `cmd:"" help:"List the images of a directory or D64 image."`
		Info    Info      `cmd:"" help:"Show infos about image files."`
		Pack    Pack      `cmd:"" help:"Compress image files."`
		Check   Check     `cmd:"" help:"Load and decode all images of a directory or D64 image."`
		D64     D64       `cmd:"" name:"d64" help:"Build a D64 disk image from image files."`
		Config  ConfigCmd `cmd:"" help:"Print the effective configuration."`
		Remote  Remote    `cmd:"" help:"Control a slideshow started with --port."`
		Version Version   `cmd:"" help:"Show koala64 version."`

		Log        logFlag `help:"${log_help}" placeholder:"MOD,..."`
		ConfigFile string  `name:"config" help:"Configuration file." default:"${config_path}" type:"path"`

		mode mode
		cmd  string
	}

	Show struct {
		Path string `arg:"" optional:"" help:"Directory or D64 image holding the pictures. (default: drive.path)" type:"path"`

		Device     uint8      `name:"device" help:"Drive number. (default: drive.device)"`
		Layout     string     `name:"layout" help:"Memory layout: ${layouts}. (default: show.layout)"`
		Wait       string     `name:"wait" help:"Show the next picture after this delay, 0 waits for a key. (default: show.wait)" placeholder:"DURATION"`
		ErrorColor string     `name:"error-color" help:"Border color signaling a failed load. (default: show.error_color)" placeholder:"COLOR"`
		Scale      int        `name:"scale" help:"Window scale factor. (default: video.scale)"`
		Shader     string     `name:"shader" help:"Window shader: ${shaders}. (default: video.shader)"`
		Headless   bool       `name:"headless" help:"Don't open a window."`
		PNG        string     `name:"png" help:"Write presented frames as PNG files into DIR. Implies --headless." placeholder:"DIR" type:"existingdir"`
		Trace      *traceFile `name:"trace" help:"Write controller events as JSON lines." placeholder:"FILE|stdout|stderr"`
		Port       int        `name:"port" help:"Listen for remote control on this TCP port. (0: disabled)"`
	}

	List struct {
		Path string `arg:"" help:"Directory or D64 image." type:"path"`
		All  bool   `name:"all" short:"a" help:"Also list files without an image marker."`
	}

	Info struct {
		Files []string `arg:"" name:"file" help:"Image files, plain or compressed." type:"existingfile"`
	}

	Pack struct {
		Files  []string `arg:"" name:"file" help:"Plain image files." type:"existingfile"`
		Output string   `name:"output" short:"o" help:"Output directory. (default: next to the input file)" type:"existingdir"`
	}

	Check struct {
		Path string `arg:"" help:"Directory or D64 image." type:"path"`
	}

	D64 struct {
		Output string   `arg:"" name:"image" help:"D64 image to create." type:"path"`
		Files  []string `arg:"" name:"file" help:"Files to write, named after their base name." type:"existingfile"`
		Name   string   `name:"name" help:"Disk name." default:"koala64"`
		ID     string   `name:"id" help:"Disk ID." default:"k6"`
		Force  bool     `name:"force" short:"f" help:"Overwrite an existing image."`
	}

	ConfigCmd struct {
		Save bool `name:"save" help:"Also write the effective configuration to the configuration file."`
	}

	Remote struct {
		Addr string `name:"addr" help:"Address of the slideshow." default:"localhost:${default_port}"`

		Next   struct{} `cmd:"" help:"Show the next picture."`
		Status struct{} `cmd:"" help:"Show the slideshow status."`
		Frame  struct {
			Output string `arg:"" name:"file.png" help:"PNG file to write." type:"path"`
		} `cmd:"" help:"Save the displayed frame as PNG."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"log_help":     "Debug the given modules (see below).",
	"config_path":  ConfigPath(),
	"layouts":      strings.Join(show.LayoutNames(), ", "),
	"shaders":      strings.Join(shaders.Names(), ", "),
	"default_port": strconv.Itoa(rpc.DefaultPort),
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("koala64"),
		kong.Description("Slideshow of C64 Koala pictures."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")
	cfg.Log.apply()

	cfg.cmd = ctx.Command()
	switch cmd := cfg.cmd; {
	case strings.HasPrefix(cmd, "list"):
		cfg.mode = listMode
	case strings.HasPrefix(cmd, "info"):
		cfg.mode = infoMode
	case strings.HasPrefix(cmd, "pack"):
		cfg.mode = packMode
	case strings.HasPrefix(cmd, "check"):
		cfg.mode = checkMode
	case strings.HasPrefix(cmd, "d64"):
		cfg.mode = d64Mode
	case cmd == "config":
		cfg.mode = configMode
	case strings.HasPrefix(cmd, "remote"):
		cfg.mode = remoteMode
	case cmd == "version":
		cfg.mode = versionMode
	default:
		cfg.mode = showMode
	}
	return cfg
}

// override applies the flags set on the command line over cfg.
func (s *Show) override(cfg *Config) error {
	if s.Path != "" {
		cfg.Drive.Path = s.Path
	}
	if s.Device != 0 {
		cfg.Drive.Device = s.Device
	}
	if s.Layout != "" {
		cfg.Show.Layout = s.Layout
	}
	if s.Wait != "" {
		if err := cfg.Show.Wait.UnmarshalText([]byte(s.Wait)); err != nil {
			return fmt.Errorf("--wait: %w", err)
		}
	}
	if s.ErrorColor != "" {
		var c hw.Color
		if err := c.UnmarshalText([]byte(s.ErrorColor)); err != nil {
			return fmt.Errorf("--error-color: %w", err)
		}
		cfg.Show.ErrorColor = c
	}
	if s.Scale != 0 {
		cfg.Video.Scale = s.Scale
	}
	if s.Shader != "" {
		cfg.Video.Shader = s.Shader
	}
	return cfg.Validate()
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if cmd := ctx.Command(); cmd != "" && !strings.HasPrefix(cmd, "show") {
		return nil
	}
	fmt.Fprintf(ctx.Stdout, `
Logging:
  --log takes a comma-separated list of the modules to debug, among:
    %s
  "all" debugs every module, "no" silences warnings too.
`, strings.Join(log.ModuleNames(), " "))
	return nil
}

// logFlag is the value of --log.
type logFlag struct {
	mask log.ModuleMask
	off  bool
}

// Decode implements kong.MapperValue.
func (l *logFlag) Decode(ctx *kong.DecodeContext) error {
	var list string
	if err := ctx.Scan.PopValueInto("modules", &list); err != nil {
		return err
	}
	for name := range strings.SplitSeq(list, ",") {
		switch name = strings.TrimSpace(name); name {
		case "no":
			l.off = true
		case "all":
			l.mask = log.ModuleMaskAll
		default:
			mod, ok := log.ModuleByName(name)
			if !ok {
				return fmt.Errorf("unknown log module %q", name)
			}
			l.mask |= mod.Mask()
		}
	}
	if l.off && l.mask != 0 {
		return fmt.Errorf(`"no" can't be combined with other log modules`)
	}
	return nil
}

func (l logFlag) apply() {
	if l.off {
		log.Disable()
		return
	}
	log.EnableDebugModules(l.mask)
}

// traceFile is the value of --trace, stdout and stderr being accepted as
// file names.
type traceFile struct {
	io.WriteCloser
	name string
}

// Decode implements kong.MapperValue.
func (f *traceFile) Decode(ctx *kong.DecodeContext) error {
	if err := ctx.Scan.PopValueInto("file", &f.name); err != nil {
		return err
	}
	switch f.name {
	case "stdout":
		f.WriteCloser = nopCloser{os.Stdout}
	case "stderr":
		f.WriteCloser = nopCloser{os.Stderr}
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.WriteCloser = fd
	}
	return nil
}

func (f *traceFile) String() string { return f.name }

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// checkf exits with a message built from format and args, followed by err,
// unless err is nil.
func checkf(err error, format string, args ...any) {
	if err != nil {
		fatalf("%s: %v", fmt.Sprintf(format, args...), err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "koala64: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
