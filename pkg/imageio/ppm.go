package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

// ErrInvalidPPM is returned when a stream is not a well-formed plain PPM image
var ErrInvalidPPM = errors.New("invalid PPM")

// EncodePPM writes img as a plain-text "P3" PPM: a header, then one "r g b" line per pixel,
// rows from top to bottom. The first write error is returned; a partial image is useless.
func EncodePPM(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	line := make([]byte, 0, len("255 255 255\n"))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			line = strconv.AppendUint(line[:0], uint64(c.R), 10)
			line = append(line, ' ')
			line = strconv.AppendUint(line, uint64(c.G), 10)
			line = append(line, ' ')
			line = strconv.AppendUint(line, uint64(c.B), 10)
			line = append(line, '\n')
			if _, err := bw.Write(line); err != nil {
				return fmt.Errorf("failed to write pixel (%d, %d): %w", x, y, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush PPM: %w", err)
	}
	return nil
}

// DecodePPM parses a plain-text "P3" PPM with maxval 255
func DecodePPM(r io.Reader) (*image.RGBA, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	next := func(what string) (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read %s: %w", what, err)
			}
			return "", fmt.Errorf("%w: missing %s", ErrInvalidPPM, what)
		}
		return scanner.Text(), nil
	}
	nextInt := func(what string, lo, hi int) (int, error) {
		tok, err := next(what)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v < lo || v > hi {
			return 0, fmt.Errorf("%w: bad %s %q", ErrInvalidPPM, what, tok)
		}
		return v, nil
	}

	magic, err := next("magic number")
	if err != nil {
		return nil, err
	}
	if magic != "P3" {
		return nil, fmt.Errorf("%w: unsupported magic number %q", ErrInvalidPPM, magic)
	}

	const maxDimension = 1 << 16
	width, err := nextInt("width", 1, maxDimension)
	if err != nil {
		return nil, err
	}
	height, err := nextInt("height", 1, maxDimension)
	if err != nil {
		return nil, err
	}
	if _, err := nextInt("maxval", 255, 255); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var rgb [3]uint8
			for i := range rgb {
				v, err := nextInt("sample", 0, 255)
				if err != nil {
					return nil, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
				}
				rgb[i] = uint8(v)
			}
			img.SetRGBA(x, y, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
		}
	}

	return img, nil
}
