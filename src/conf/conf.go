// Package conf loads the trainboard.json settings file.
package conf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"trainboard/src/base"
	"trainboard/src/fen"
)

const DefaultFile = "trainboard.json"

type Config struct {
	Oracle          string `json:"oracle" validate:"oneof=notnil dragontooth"`
	PromotionPolicy string `json:"promotion_policy" validate:"oneof=discard reject"`
	StartFEN        string `json:"start_fen" validate:"fen"`
	BoardSize       int    `json:"board_size" validate:"min=160,max=4096"`
	Flipped         bool   `json:"flipped"`
	WindowW         int    `json:"window_w" validate:"min=320"`
	WindowH         int    `json:"window_h" validate:"min=320"`
	Theme           string `json:"theme" validate:"oneof=light dark"` // light/dark
	JournalPath     string `json:"journal_path"`                      // empty disables the journal
	LogLevel        string `json:"log_level" validate:"oneof=debug info warn error"`
	LogDev          bool   `json:"log_dev"`
	LogConsole      bool   `json:"log_console"`
	LogPath         string `json:"log_path"` // used when log_console is false

	file string
}

func defaultConfig() Config {
	return Config{
		Oracle:          "notnil",
		PromotionPolicy: "discard",
		StartFEN:        base.FEN_START_GAME,
		BoardSize:       640,
		WindowW:         1000,
		WindowH:         720,
		Theme:           "light",
		JournalPath:     "trainboard.db",
		LogLevel:        "info",
		LogConsole:      false,
		LogPath:         "trainboard.log",
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	_ = v.RegisterValidation("fen", func(fl validator.FieldLevel) bool {
		_, err := fen.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// Default returns the built-in settings bound to DefaultFile.
func Default() *Config {
	c := defaultConfig()
	c.file = DefaultFile
	return &c
}

// Load reads path, or DefaultFile when path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		def := defaultConfig()
		def.file = path
		return &def, nil
	} else if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := defaultConfig()
	dec := json.NewDecoder(f)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("error decode config: %w", err)
	}
	c.file = path
	correctableConfig(&c)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports every field that breaks its rule.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var details strings.Builder
	for _, fe := range verrs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch fe.Tag() {
		case "oneof":
			fmt.Fprintf(&details, "%s must be one of [%s]", fe.Field(), fe.Param())
		case "min":
			fmt.Fprintf(&details, "%s must be at least %s", fe.Field(), fe.Param())
		case "max":
			fmt.Fprintf(&details, "%s must be at most %s", fe.Field(), fe.Param())
		case "fen":
			fmt.Fprintf(&details, "%s is not a valid FEN", fe.Field())
		default:
			fmt.Fprintf(&details, "%s failed %s validation", fe.Field(), fe.Tag())
		}
	}
	return fmt.Errorf("invalid config: %s", details.String())
}

func (c *Config) Save() error {
	file := c.file
	if file == "" {
		file = DefaultFile
	}
	jsonData, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, jsonData, 0644)
}

func (c *Config) File() string {
	return c.file
}

// correctableConfig repairs values a user is likely to get slightly wrong.
func correctableConfig(c *Config) {
	def := defaultConfig()
	c.Oracle = strings.ToLower(strings.TrimSpace(c.Oracle))
	if c.Oracle == "" {
		c.Oracle = def.Oracle
	}
	c.PromotionPolicy = strings.ToLower(strings.TrimSpace(c.PromotionPolicy))
	if c.PromotionPolicy == "" {
		c.PromotionPolicy = def.PromotionPolicy
	}
	if strings.TrimSpace(c.StartFEN) == "" {
		c.StartFEN = def.StartFEN
	}
	c.StartFEN = strings.TrimSpace(c.StartFEN)
	if c.Theme != "light" && c.Theme != "dark" {
		c.Theme = def.Theme
	}
	if c.WindowH < def.WindowH || c.WindowW < def.WindowW {
		c.WindowH = def.WindowH
		c.WindowW = def.WindowW
	}
	if c.BoardSize == 0 {
		c.BoardSize = def.BoardSize
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}
