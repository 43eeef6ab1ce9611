// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texture decodes image files into [asset.TextureData] in the
// canonical [asset.FormatRGBA8] format, and registers itself as the
// texture importer for the image extensions it supports.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"strings"

	"cogentcore.org/scene3d/asset"
	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

func init() {
	im := &Importer{}
	for _, ext := range Exts {
		asset.RegisterTextureImporter(ext, im)
	}
}

// Formats are the supported image file formats.
type Formats int32

// The supported image file formats.
const (
	None Formats = iota
	PNG
	JPEG
	GIF
	TIFF
	BMP
	WebP
)

var formatNames = [...]string{"None", "PNG", "JPEG", "GIF", "TIFF", "BMP", "WebP"}

func (f Formats) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Formats(%d)", int32(f))
	}
	return formatNames[f]
}

// Exts are the file extensions registered for import.
var Exts = []string{".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp", ".webp"}

// ExtToFormat returns a Format based on a filename extension,
// which can start with a . or not
func ExtToFormat(ext string) (Formats, error) {
	if len(ext) == 0 {
		return None, errors.New("texture.ExtToFormat: ext is empty")
	}
	if ext[0] == '.' {
		ext = ext[1:]
	}
	switch strings.ToLower(ext) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	case "webp":
		return WebP, nil
	}
	return None, fmt.Errorf("texture.ExtToFormat: extension %q not recognized", ext)
}

// Importer imports image files as textures.
// It implements [asset.TextureImporter].
type Importer struct {

	// FS is the filesystem to read from; if nil, the OS filesystem is used.
	FS fs.FS
}

// ImportTexture decodes the given image file into RGBA8 texture data.
func (im *Importer) ImportTexture(filename string) (*asset.TextureData, error) {
	var img image.Image
	var err error
	if im.FS != nil {
		img, _, err = OpenFS(im.FS, filename)
	} else {
		img, _, err = Open(filename)
	}
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", filename, err)
	}
	return FromImage(img), nil
}

// FromImage returns the pixels of the given image as RGBA8 texture data,
// converting them if needed.
func FromImage(img image.Image) *asset.TextureData {
	return asset.NewTextureFromRGBA(clone.AsRGBA(img))
}

// Open opens an image from the given filename.
// The format is inferred automatically,
// and is returned using the Formats enum.
// png, jpeg, gif, tiff, bmp, and webp are supported.
func Open(filename string) (image.Image, Formats, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, None, err
	}
	defer file.Close()
	return Read(file)
}

// OpenFS opens an image from the given filename
// using the given [fs.FS] filesystem.
func OpenFS(fsys fs.FS, filename string) (image.Image, Formats, error) {
	file, err := fsys.Open(filename)
	if err != nil {
		return nil, None, err
	}
	defer file.Close()
	return Read(file)
}

// Read reads an image from the given reader,
// inferring the format from its contents.
func Read(r io.Reader) (image.Image, Formats, error) {
	img, ext, err := image.Decode(r)
	if err != nil {
		return img, None, err
	}
	f, err := ExtToFormat(ext)
	return img, f, err
}

// Write writes the image to the given writer using the given format.
// png, jpeg, gif, tiff, and bmp are supported.
func Write(img image.Image, w io.Writer, f Formats) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case GIF:
		return gif.Encode(w, img, nil)
	case TIFF:
		return tiff.Encode(w, img, nil)
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("texture.Write: format %v not valid", f)
}
