package gimages

import (
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"trainboard/src/base"
	"trainboard/src/export"
)

const renderSize = 96

var files = map[base.Piece]string{
	base.WKing:   "wking60.png",
	base.BKing:   "bking60.png",
	base.WQueen:  "wqueen60.png",
	base.BQueen:  "bqueen60.png",
	base.WBishop: "wbishop60.png",
	base.BBishop: "bbishop60.png",
	base.WKnight: "wknight60.png",
	base.BKnight: "bknight60.png",
	base.WRook:   "wrook60.png",
	base.BRook:   "brook60.png",
	base.WPawn:   "wpawn60.png",
	base.BPawn:   "bpawn60.png",
}

// LoadImageAssets loads piece PNGs from workdir. Pieces without a file are
// drawn as lettered discs.
func LoadImageAssets(workdir string) (map[base.Piece]*ebiten.Image, error) {
	figureImages := make(map[base.Piece]*ebiten.Image, len(files))
	for pc, name := range files {
		path := filepath.Join(workdir, name)
		if _, err := os.Stat(path); err == nil {
			img, _, err := ebitenutil.NewImageFromFile(path)
			if err != nil {
				return nil, err
			}
			figureImages[pc] = img
			continue
		}
		figureImages[pc] = ebiten.NewImageFromImage(export.PieceImage(pc, renderSize))
	}
	return figureImages, nil
}
