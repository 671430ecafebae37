package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Advisor banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Warm gradient, amber to coral.
	lines := []struct {
		text  string
		color string
	}{
		{`     _       _       _                `, "#fbbf24"},
		{`    / \   __| |_   _(_)___  ___  _ __ `, "#f59e0b"},
		{`   / _ \ / _' \ \ / / / __|/ _ \| '__|`, "#f97316"},
		{`  / ___ \ (_| |\ V /| \__ \ (_) | |   `, "#fb7185"},
		{` /_/   \_\__,_| \_/ |_|___/\___/|_|   `, "#f43f5e"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  pet food advisor "+version).Faint())
	fmt.Fprintln(w)
}
