// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"fmt"
	"image"
	"slices"
)

// Formats are the pixel formats of a [TextureData] buffer.
// The values are the OpenGL enum values for the format, which is
// what is written to the formatTag field of a texture cache record.
type Formats uint32

const (
	// FormatRGBA8 is 8 bits per channel, red, green, blue, alpha,
	// rows top to bottom, with the alpha-premultiplied layout of
	// [image.RGBA]. It is the canonical format: every texture importer
	// normalizes to it.
	FormatRGBA8 Formats = 0x1908
)

// String returns the name of the format.
func (f Formats) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	}
	return fmt.Sprintf("Formats(%#x)", uint32(f))
}

// BytesPerPixel returns the number of bytes per pixel for the format,
// and 0 for an unknown format.
func (f Formats) BytesPerPixel() int {
	switch f {
	case FormatRGBA8:
		return 4
	}
	return 0
}

// TextureData holds decoded pixels of one texture, as produced by a
// texture importer and as stored in a texture cache record.
type TextureData struct {
	Width  uint32
	Height uint32
	Format Formats

	// Pixels holds Width * Height pixels in Format, rows top to bottom.
	Pixels []byte
}

// Validate checks that the pixel buffer length matches the dimensions and
// format, returning an error wrapping [ErrInvalid] if not.
func (td *TextureData) Validate() error {
	bpp := td.Format.BytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("%w: unknown pixel format %v", ErrInvalid, td.Format)
	}
	want := uint64(td.Width) * uint64(td.Height) * uint64(bpp)
	if uint64(len(td.Pixels)) != want {
		return fmt.Errorf("%w: %d pixel bytes for %dx%d %v", ErrInvalid, len(td.Pixels), td.Width, td.Height, td.Format)
	}
	return nil
}

// Clone returns a deep copy of the texture data.
func (td *TextureData) Clone() *TextureData {
	ct := *td
	ct.Pixels = slices.Clone(td.Pixels)
	return &ct
}

// NewTextureFromRGBA returns texture data holding the pixels of the given
// RGBA image. The pixels are shared when the image is tightly packed,
// and copied row by row otherwise (sub-images).
func NewTextureFromRGBA(img *image.RGBA) *TextureData {
	b := img.Bounds()
	sz := b.Size()
	td := &TextureData{
		Width:  uint32(sz.X),
		Height: uint32(sz.Y),
		Format: FormatRGBA8,
	}
	row := sz.X * 4
	if img.Stride == row && len(img.Pix) >= row*sz.Y {
		td.Pixels = img.Pix[:row*sz.Y]
		return td
	}
	td.Pixels = make([]byte, row*sz.Y)
	for y := 0; y < sz.Y; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(td.Pixels[y*row:(y+1)*row], img.Pix[off:off+row])
	}
	return td
}

// Image returns an RGBA image sharing the pixels of the texture,
// which must be in [FormatRGBA8].
func (td *TextureData) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    td.Pixels,
		Stride: int(td.Width) * 4,
		Rect:   image.Rect(0, 0, int(td.Width), int(td.Height)),
	}
}
