//go:build js && wasm
// +build js,wasm

package gclipboard

import (
	"errors"
	"strings"
	"syscall/js"
)

var errEmpty = errors.New("clipboard is empty")

// await blocks on a JS promise and returns its value.
func await(promise js.Value) (js.Value, error) {
	type res struct {
		v   js.Value
		err error
	}
	ch := make(chan res, 1)
	then := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		ch <- res{v: v}
		return nil
	})
	catch := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		msg := "clipboard request rejected"
		if len(args) > 0 {
			msg = args[0].String()
		}
		ch <- res{err: errors.New(msg)}
		return nil
	})
	defer then.Release()
	defer catch.Release()

	promise.Call("then", then).Call("catch", catch)
	r := <-ch
	return r.v, r.err
}

func clipboard() (js.Value, error) {
	nav := js.Global().Get("navigator")
	if !nav.Truthy() || !nav.Get("clipboard").Truthy() {
		return js.Undefined(), errors.New("navigator.clipboard not available")
	}
	return nav.Get("clipboard"), nil
}

func ReadAll() (string, error) {
	cb, err := clipboard()
	if err != nil {
		return "", err
	}
	v, err := await(cb.Call("readText"))
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(v.String())
	if text == "" {
		return "", errEmpty
	}
	return text, nil
}

func WriteAll(text string) error {
	cb, err := clipboard()
	if err != nil {
		return err
	}
	_, err = await(cb.Call("writeText", strings.TrimSpace(text)))
	return err
}
