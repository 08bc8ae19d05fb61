package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"trainboard/src"
	"trainboard/src/conf"
	"trainboard/src/export"
	"trainboard/src/journal"
	"trainboard/src/logx"
	clic "trainboard/ui/cli"
	"trainboard/ui/gui"
	"trainboard/ui/gui/gbase"
)

// loadConfig reads --config and applies the logging flags on top of it.
func loadConfig(c *cli.Command) (*conf.Config, error) {
	cfg, err := conf.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("level") {
		cfg.LogLevel = c.String("level")
	}
	if c.IsSet("dev") {
		cfg.LogDev = c.Bool("dev")
	}
	if c.IsSet("console") {
		cfg.LogConsole = c.Bool("console")
	}
	if c.IsSet("oracle") {
		cfg.Oracle = c.String("oracle")
	}
	if c.IsSet("journal") {
		cfg.JournalPath = c.String("journal")
	}
	return cfg, cfg.Validate()
}

// GetLogger writes to the configured log file, or to stdout in console mode.
func GetLogger(cfg *conf.Config) (*logx.Logx, io.Closer, error) {
	l := logx.NewLogx(logx.GetLoggerLevelByString(cfg.LogLevel), cfg.LogDev, cfg.LogConsole)
	if cfg.LogConsole || cfg.LogPath == "" {
		l.InitLogger(nil)
		return l, io.NopCloser(nil), nil
	}
	file, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("error open logfile: %w", err)
	}
	l.InitLogger(file)
	return l, file, nil
}

// withTrainer builds the logger and trainer for one command run.
func withTrainer(c *cli.Command, fen string, run func(*src.Trainer, logx.Logger) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, closer, err := GetLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	t, err := src.NewTrainer(cfg, fen, logger)
	if err != nil {
		logger.Errorf("error init trainer: %v", err)
		return err
	}
	defer t.Close()
	return run(t, logger)
}

func RunGUI(c *cli.Command) error {
	return withTrainer(c, c.String("fen"), func(t *src.Trainer, logger logx.Logger) error {
		g, err := gui.NewGUI(t, c.String("assets"), logger)
		if err != nil {
			logger.Errorf("error init GUI: %v", err)
			return fmt.Errorf("error init GUI: %v", err)
		}
		return g.Run()
	})
}

func runCLI(c *cli.Command) error {
	fen := c.String("fen")
	if path := c.String("moves"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error open file: %w", err)
		}
		if fen, err = export.MovesToPositionFrom(startFEN(fen), strings.Fields(string(data))); err != nil {
			return fmt.Errorf("error read move list: %w", err)
		}
	}
	return withTrainer(c, fen, func(t *src.Trainer, _ logx.Logger) error {
		clic.EnableANSI()
		return clic.NewCLI(t, clic.PrintState).Run()
	})
}

func startFEN(fen string) string {
	if fen == "" {
		return conf.Default().StartFEN
	}
	return fen
}

func runFEN(c *cli.Command) error {
	fen, err := export.MovesToPositionFrom(startFEN(c.String("from")), c.Args().Slice())
	if err != nil {
		return err
	}
	fmt.Println(fen)
	return nil
}

func runThumbnail(c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	opts := export.DefaultThumbOptions
	if s := c.String("size"); s != "" {
		if opts.Size, err = strconv.Atoi(s); err != nil || opts.Size < 16 {
			return fmt.Errorf("bad size %q", s)
		}
	}
	opts.Flipped = c.Bool("flipped")
	opts.Labels = c.Bool("labels")

	fen := startFEN(c.String("fen"))
	switch {
	case c.String("session") != "":
		if cfg.JournalPath == "" {
			return errors.New("journal is disabled in the config")
		}
		store, err := journal.Open(cfg.JournalPath, nil)
		if err != nil {
			return err
		}
		defer store.Close()
		if fen, err = src.SessionPosition(store, c.String("session")); err != nil {
			return err
		}
	case c.String("moves") != "":
		if fen, err = export.MovesToPositionFrom(fen, strings.Fields(c.String("moves"))); err != nil {
			return err
		}
	}

	out := c.String("out")
	if out == "-" {
		return export.RenderThumbnail(os.Stdout, fen, opts)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := export.RenderThumbnail(f, fen, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runSessions(c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.JournalPath == "" {
		return errors.New("journal is disabled in the config")
	}
	store, err := journal.Open(cfg.JournalPath, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.Sessions()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tCREATED\tORACLE\tMOVES\tSTART")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			s.SessionID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Oracle, s.MoveCount, s.InitialFEN)
	}
	return w.Flush()
}

func RunTrainboard() error {
	cfgf := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"f"},
		Usage:   "path to the JSON config",
		Value:   conf.DefaultFile,
	}
	df := &cli.BoolFlag{
		Name:    "dev",
		Aliases: []string{"d"},
		Usage:   "dev encode log",
	}
	lf := &cli.StringFlag{
		Name:        "level",
		Aliases:     []string{"l"},
		Usage:       "level log",
		DefaultText: "info",
	}
	cf := &cli.BoolFlag{
		Name:    "console",
		Aliases: []string{"c"},
		Usage:   "console log",
	}
	of := &cli.StringFlag{
		Name:  "oracle",
		Usage: "rules backend: notnil or dragontooth",
	}
	jf := &cli.StringFlag{
		Name:  "journal",
		Usage: "path to the move journal database",
	}
	ff := &cli.StringFlag{
		Name:  "fen",
		Usage: "string FEN format",
	}
	guiff := []cli.Flag{ff, &cli.StringFlag{Name: "assets", Usage: "directory with piece images and fonts", Value: "assets"}}

	guiAction := func(ctx context.Context, c *cli.Command) error {
		if err := RunGUI(c); err != nil && !errors.Is(err, gbase.ErrExit) {
			return fmt.Errorf("error GUI: %w", err)
		}
		return nil
	}

	return (&cli.Command{
		Name:  "trainboard",
		Usage: "drag-and-drop chess board trainer",
		Flags: []cli.Flag{cfgf, df, lf, cf, of, jf},
		Commands: []*cli.Command{
			{
				Name:   "gui",
				Usage:  "open the board window",
				Flags:  guiff,
				Action: guiAction,
			},
			{
				Name:  "cli",
				Usage: "drive the board from a terminal",
				Flags: []cli.Flag{ff, &cli.StringFlag{Name: "moves", Usage: "file with a move list to replay first"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runCLI(c)
				},
			},
			{
				Name:      "fen",
				Usage:     "print the position reached by a move list",
				ArgsUsage: "<moves...>",
				Flags:     []cli.Flag{&cli.StringFlag{Name: "from", Usage: "start FEN"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runFEN(c)
				},
			},
			{
				Name:  "thumbnail",
				Usage: "render a position to PNG",
				Flags: []cli.Flag{
					ff,
					&cli.StringFlag{Name: "moves", Usage: "space separated move list replayed from --fen"},
					&cli.StringFlag{Name: "session", Usage: "journal session id to replay"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, - for stdout", Value: "board.png"},
					&cli.StringFlag{Name: "size", Usage: "image size in pixels", DefaultText: "256"},
					&cli.BoolFlag{Name: "flipped", Usage: "black at the bottom"},
					&cli.BoolFlag{Name: "labels", Usage: "draw file and rank letters"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runThumbnail(c)
				},
			},
			{
				Name:  "sessions",
				Usage: "list journal sessions",
				Action: func(ctx context.Context, c *cli.Command) error {
					return runSessions(c)
				},
			},
		},
		Action: guiAction,
	}).Run(context.Background(), os.Args)
}
