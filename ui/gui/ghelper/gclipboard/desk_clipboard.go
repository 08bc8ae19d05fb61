//go:build !js && !wasm
// +build !js,!wasm

package gclipboard

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

var errEmpty = errors.New("clipboard is empty")

// ReadAll returns the clipboard text without surrounding blanks, ready to be
// tried as a FEN or a move list.
func ReadAll() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errEmpty
	}
	return text, nil
}

func WriteAll(text string) error {
	return clipboard.WriteAll(strings.TrimSpace(text))
}
