package main

import (
	"fmt"
	"os"

	"trainboard/ui"
)

func main() {
	if err := ui.RunTrainboard(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
