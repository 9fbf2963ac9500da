package koala

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"koala64/hw"
)

var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6))
	warnStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3))
)

// ColorUsage counts, for each of the 16 colors, the number of cells using it
// in the screen and color map regions, plus the background.
func (c *Container) ColorUsage() [16]int {
	var usage [16]int
	scr := c.Slice(Screen)
	col := c.Slice(ColorMap)
	for i := range scr {
		var seen [16]bool
		for _, nib := range [...]uint8{scr[i] >> 4, scr[i] & 0x0F, col[i] & 0x0F} {
			if !seen[nib] {
				seen[nib] = true
				usage[nib]++
			}
		}
	}
	usage[c.BackgroundColor()&0x0F]++
	return usage
}

// PrintInfos writes a human-readable description of the container to w.
func (c *Container) PrintInfos(w io.Writer) {
	row := func(key, val string) {
		fmt.Fprintf(w, "%s %s\n", keyStyle.Render(fmt.Sprintf("%-14s", key)), val)
	}

	addr := fmt.Sprintf("$%04X", c.LoadAddress())
	if c.LoadAddress() != DefaultLoadAddress {
		addr += " " + warnStyle.Render(fmt.Sprintf("(not $%04X)", DefaultLoadAddress))
	}
	row("load address", addr)
	row("background", hw.Color(c.BackgroundColor()&0x0F).String())

	var used []string
	for i, n := range c.ColorUsage() {
		if n > 0 {
			used = append(used, fmt.Sprintf("%s:%d", hw.Color(i), n))
		}
	}
	row("colors", strings.Join(used, ", "))
}
