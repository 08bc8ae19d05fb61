//go:build !js && !wasm
// +build !js,!wasm

package gdialog

import (
	"os"
	"path/filepath"

	"github.com/sqweek/dialog"
)

type Result struct {
	Path string
	Name string
	Data []byte
}

func OpenFile(title string) (Result, error) {
	path, err := dialog.File().
		Title(title).
		Filter("Positions and move lists", "fen", "txt", "pgn").
		Filter("All files", "*").
		Load()
	if err != nil {
		return Result{}, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Path: path,
		Name: filepath.Base(path),
		Data: b,
	}, nil
}

// Cancelled reports whether err means the user closed the dialog.
func Cancelled(err error) bool {
	return err == dialog.ErrCancelled
}
