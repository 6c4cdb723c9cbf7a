// Package config loads cmd/zgo's TOML configuration file: font choices
// and screen geometry. No interpreter package depends on this one —
// it is wired up only at the CLI boundary.
package config

import "github.com/BurntSushi/toml"

type Fonts struct {
	Size         int    `toml:"size"`
	NormalRoman  string `toml:"normal-roman"`
	NormalBold   string `toml:"normal-bold"`
	NormalItalic string `toml:"normal-italic"`
	FPitchRoman  string `toml:"fpitch-roman"`
	FPitchBold   string `toml:"fpitch-bold"`
	FPitchItalic string `toml:"fpitch-italic"`
}

type Screen struct {
	Lines      int  `toml:"lines"`
	Columns    int  `toml:"columns"`
	Fullscreen bool `toml:"fullscreen"`
}

type Config struct {
	Fonts  Fonts  `toml:"Fonts"`
	Screen Screen `toml:"Screen"`
}

// Default returns the configuration used when no -c/--conf file is
// given, matching a typical 80x25 terminal session.
func Default() Config {
	return Config{
		Fonts: Fonts{Size: 16},
		Screen: Screen{
			Lines:   25,
			Columns: 80,
		},
	}
}

// Load reads and parses a TOML config file at path, starting from
// Default() so an incomplete file still yields sane screen geometry.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
