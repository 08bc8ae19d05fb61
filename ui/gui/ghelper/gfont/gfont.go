package gfont

import (
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

type Fonts struct {
	Small  font.Face
	Normal font.Face
	Bold   font.Face
}

// Basic is the built-in bitmap fallback.
func Basic() *Fonts {
	return &Fonts{Small: basicfont.Face7x13, Normal: basicfont.Face7x13, Bold: basicfont.Face7x13}
}

// LoadFonts reads NotoSansDisplay-Regular.ttf from workdir, or falls back to
// Basic when there is no such file.
func LoadFonts(workdir string) (*Fonts, error) {
	data, err := os.ReadFile(filepath.Join(workdir, "NotoSansDisplay-Regular.ttf"))
	if os.IsNotExist(err) {
		return Basic(), nil
	} else if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}

	fonts := &Fonts{}
	for _, face := range []struct {
		dst  *font.Face
		size float64
	}{
		{&fonts.Small, 11},
		{&fonts.Normal, 13},
		{&fonts.Bold, 16},
	} {
		*face.dst, err = opentype.NewFace(f, &opentype.FaceOptions{
			Size:    face.size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return nil, err
		}
	}
	return fonts, nil
}
