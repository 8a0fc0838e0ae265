package ui

import (
	"image"
	"os"
	"strings"

	"github.com/qeesung/image2ascii/convert"
)

// TerminalCapabilities represents which graphics protocols the terminal supports.
type TerminalCapabilities struct {
	SupportsKitty  bool
	SupportsSixel  bool
	SupportsITerm2 bool
}

// DetectTerminalCapabilities detects which graphics protocols the terminal supports.
func DetectTerminalCapabilities() TerminalCapabilities {
	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	return TerminalCapabilities{
		SupportsKitty:  strings.Contains(term, "kitty") || os.Getenv("KITTY_WINDOW_ID") != "",
		SupportsSixel:  detectSixelSupport(),
		SupportsITerm2: termProgram == "iTerm.app",
	}
}

// detectSixelSupport checks if the terminal supports Sixel graphics.
// This is a simplified check - we look for common Sixel-capable terminals.
func detectSixelSupport() bool {
	term := os.Getenv("TERM")

	// Xterm with Sixel support
	if strings.Contains(term, "xterm") && os.Getenv("XTERM_VERSION") != "" {
		return true
	}

	// MLTerm
	if strings.Contains(term, "mlterm") {
		return true
	}

	// WezTerm
	if os.Getenv("WEZTERM_EXECUTABLE") != "" {
		return true
	}

	// Foot terminal
	if strings.Contains(term, "foot") {
		return true
	}

	return false
}

// RenderMapImage renders the listings map into targetWidth x targetHeight cells.
// Output is ANSI colored when the terminal advertises color support.
func RenderMapImage(img image.Image, caps TerminalCapabilities, targetWidth, targetHeight int) string {
	if targetWidth <= 0 || targetHeight <= 0 || img == nil {
		return ""
	}
	return convertToASCII(img, targetWidth, targetHeight, caps.Colored())
}

// Colored reports whether ANSI colored output is worth emitting.
func (c TerminalCapabilities) Colored() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.SupportsKitty || c.SupportsSixel || c.SupportsITerm2 || os.Getenv("COLORTERM") != "" || strings.Contains(os.Getenv("TERM"), "256color")
}

// convertToASCII converts an image to ASCII art.
func convertToASCII(img image.Image, targetWidth, targetHeight int, colored bool) string {
	// Create converter with options
	converter := convert.NewImageConverter()

	// Convert options
	opts := convert.DefaultOptions
	opts.FixedWidth = targetWidth
	opts.FixedHeight = targetHeight
	opts.Colored = colored
	opts.Ratio = 0.5 // Adjust for terminal character aspect ratio

	ascii := converter.Image2ASCIIString(img, &opts)
	return strings.TrimRight(ascii, "\n")
}
