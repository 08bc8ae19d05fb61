package main

import (
	"fmt"

	"trainboard/src"
	"trainboard/src/conf"
	"trainboard/src/logx"
	"trainboard/ui/gui"
)

func GetLogger() *logx.Logx {
	l := logx.NewLogx(
		logx.GetLoggerLevelByString("debug"),
		false,
		true,
	)
	l.InitLogger(nil)
	return l
}

// RunGUI starts the board in the browser. There is no sqlite in wasm, so the
// journal is off.
func RunGUI() error {
	logger := GetLogger()
	cfg := conf.Default()
	cfg.JournalPath = ""
	t, err := src.NewTrainer(cfg, "", logger)
	if err != nil {
		logger.Errorf("error init trainer: %v", err)
		return fmt.Errorf("error init trainer: %v", err)
	}
	defer t.Close()
	g, err := gui.NewGUI(t, "/", logger)
	if err != nil {
		logger.Errorf("error init GUI: %v", err)
		return fmt.Errorf("error init GUI: %v", err)
	}
	return g.Run()
}

func main() {
	RunGUI()
}
