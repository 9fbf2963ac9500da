package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"koala64/hw"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(defaultConfig, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	// A failed load is retried right away.
	if cfg.Show.RetryDelay.Duration != 0 {
		t.Errorf("retry delay = %s, want 0", cfg.Show.RetryDelay.Duration)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[drive]
device = 9
path = "/pics/slides.d64"
status_quirk = true

[show]
layout = "high"
wait = "1m30s"
error_color = "light-blue"

[video]
scale = 3
shader = "crt"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	want := defaultConfig
	want.Drive = DriveConfig{Device: 9, Path: "/pics/slides.d64", StatusQuirk: true}
	want.Show.Layout = "high"
	want.Show.Wait = duration{90 * time.Second}
	want.Show.ErrorColor = hw.LightBlue
	want.Video = VideoConfig{Scale: 3, Shader: "crt"}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string // substring of the error
	}{
		{"syntax", "[drive\n", "config"},
		{"unknown key", "[show]\nspeed = 2\n", "show.speed"},
		{"bad duration", "[show]\nwait = \"soon\"\n", "invalid duration"},
		{"bad color", "[show]\nerror_color = \"magenta\"\n", "magenta"},
		{"device", "[drive]\ndevice = 1\n", "drive.device"},
		{"layout", "[show]\nlayout = \"middle\"\n", "show.layout"},
		{"scale", "[video]\nscale = 0\n", "video.scale"},
		{"shader", "[video]\nshader = \"blur\"\n", "video.shader"},
		{"capacity", "[show]\ncapacity = -1\n", "show.capacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("LoadConfig should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q doesn't contain %q", err, tt.want)
			}
		})
	}
}

func TestSaveConfig(t *testing.T) {
	cfg := defaultConfig
	cfg.Show.Wait = duration{5 * time.Second}
	cfg.Show.ErrorColor = hw.LightRed
	cfg.Drive.Path = "/somewhere"

	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestShowOverride(t *testing.T) {
	cfg := defaultConfig
	args := Show{
		Path:       "/pics",
		Device:     10,
		Layout:     "high",
		Wait:       "3s",
		ErrorColor: "2",
		Scale:      4,
	}
	if err := args.override(&cfg); err != nil {
		t.Fatal(err)
	}

	want := defaultConfig
	want.Drive.Path = "/pics"
	want.Drive.Device = 10
	want.Show.Layout = "high"
	want.Show.Wait = duration{3 * time.Second}
	want.Show.ErrorColor = hw.Red
	want.Video.Scale = 4
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	for _, args := range []Show{
		{Wait: "later"},
		{ErrorColor: "pink"},
		{Layout: "middle"},
		{Scale: 20},
	} {
		cfg := defaultConfig
		if err := args.override(&cfg); err == nil {
			t.Errorf("override(%+v) should fail", args)
		}
	}
}
