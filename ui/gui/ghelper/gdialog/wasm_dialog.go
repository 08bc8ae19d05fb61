//go:build js && wasm
// +build js,wasm

package gdialog

import (
	"errors"
	"syscall/js"
)

type Result struct {
	Path string // always empty in the browser
	Name string
	Data []byte
}

var errNoFile = errors.New("no file selected")

func Cancelled(err error) bool {
	return err == errNoFile
}

type picked struct {
	res Result
	err error
}

// OpenFile clicks a hidden <input type="file"> and reads the chosen file.
func OpenFile(title string) (Result, error) {
	doc := js.Global().Get("document")
	if !doc.Truthy() || !doc.Get("body").Truthy() {
		return Result{}, errors.New("document not available")
	}
	body := doc.Get("body")

	ch := make(chan picked, 1)
	input := doc.Call("createElement", "input")
	input.Set("type", "file")
	input.Set("title", title)
	input.Set("accept", ".fen,.txt,.pgn")

	var onload, onerror js.Func
	onchange := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		files := input.Get("files")
		if files.Length() == 0 {
			ch <- picked{err: errNoFile}
			return nil
		}
		file := files.Index(0)
		reader := js.Global().Get("FileReader").New()

		onload = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			buf := js.Global().Get("Uint8Array").New(reader.Get("result"))
			data := make([]byte, buf.Get("length").Int())
			js.CopyBytesToGo(data, buf)
			ch <- picked{res: Result{Name: file.Get("name").String(), Data: data}}
			return nil
		})
		onerror = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			ch <- picked{err: errors.New("failed to read file")}
			return nil
		})
		reader.Set("onload", onload)
		reader.Set("onerror", onerror)
		reader.Call("readAsArrayBuffer", file)
		return nil
	})
	defer onchange.Release()

	input.Set("onchange", onchange)
	body.Call("appendChild", input)
	input.Call("click")

	r := <-ch
	body.Call("removeChild", input)
	if onload.Truthy() {
		onload.Release()
		onerror.Release()
	}
	return r.res, r.err
}
