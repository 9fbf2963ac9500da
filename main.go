package main

import (
	"fmt"
	"os"
	"runtime/debug"
)

func main() {
	args := parseArgs(os.Args[1:])

	switch args.mode {
	case versionMode:
		fmt.Println("koala64", version())
		return
	case infoMode:
		infoMain(args.Info)
		return
	case packMode:
		packMain(args.Pack)
		return
	case listMode:
		listMain(args.List)
		return
	case checkMode:
		checkMain(args.Check)
		return
	case d64Mode:
		d64Main(args.D64)
		return
	case remoteMode:
		remoteMain(args.Remote, args.cmd)
		return
	}

	cfg, err := LoadConfig(args.ConfigFile)
	checkf(err, "failed to load configuration")

	switch args.mode {
	case configMode:
		configMain(args.Config, cfg, args.ConfigFile)
	case showMode:
		checkf(args.Show.override(&cfg), "invalid option")
		showMain(args.Show, cfg)
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}
