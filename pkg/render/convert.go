package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

const rsvgBinary = "rsvg-convert"

// ErrNoConverter is returned when rsvg-convert is not on PATH.
var ErrNoConverter = fmt.Errorf("%s not found; install librsvg (brew install librsvg, apt install librsvg2-bin)", rsvgBinary)

// CanConvert reports whether SVG conversion is available.
func CanConvert() bool {
	_, err := exec.LookPath(rsvgBinary)
	return err == nil
}

// ToPDF converts SVG bytes to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG, scaled by zoom.
func ToPNG(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", zoom))
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !CanConvert() {
		return nil, fmt.Errorf("%s export: %w", format, ErrNoConverter)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, rsvgBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v: %s", rsvgBinary, err, errBuf.String())
	}
	return out.Bytes(), nil
}
