// Package config reads bankedit.ini.
//
// Every setting has a default, so a missing file is not an error.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"
	"gopkg.in/ini.v1"

	"bankedit/signature"
)

const FILENAME = "bankedit.ini"

type Settings struct {
	Dir             string
	Handle_per_unit bool
	Preamble        signature.Preamble
	Log             logger.Configuration
	Settle          time.Duration // how long to leave the game alone with a file before reading it
}

func Default() *Settings {
	wd, _ := os.Getwd()
	return &Settings{
		Dir:             wd,
		Handle_per_unit: true,
		Preamble:        signature.Default,
		Log: logger.Configuration{
			Directory: filepath.Join(os.TempDir(), "bankedit"),
			File:      "bankedit.log",
			Size:      1048576,
			Count:     10,
			Console:   false,
			Levels: map[string]string{
				logger.DefaultTag: "info",
			},
		},
		Settle: 5 * time.Second,
	}
}

// Load reads settings from filename.  If the file does not exist, defaults are returned.
func Load(filename string) (*Settings, error) {
	out := Default()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return out, nil
	}

	cfg, err := ini.Load(filename)
	if err != nil {
		return nil, err
	}

	// Classic read of values, default section can be represented as empty string
	top := cfg.Section("")
	out.Dir = top.Key("dir").MustString(out.Dir)
	out.Handle_per_unit = top.Key("handle_per_unit").MustBool(out.Handle_per_unit)

	sig := cfg.Section("signature")
	out.Preamble.Region = sig.Key("region").MustString(out.Preamble.Region)
	out.Preamble.Author = sig.Key("author").MustUint64(out.Preamble.Author)
	out.Preamble.Bank = sig.Key("bank").MustString(out.Preamble.Bank)

	log := cfg.Section("log")
	out.Log.Directory = log.Key("directory").MustString(out.Log.Directory)
	out.Log.File = log.Key("file").MustString(out.Log.File)
	out.Log.Size = log.Key("size").MustInt(out.Log.Size)
	out.Log.Count = log.Key("count").MustInt(out.Log.Count)
	out.Log.Console = log.Key("console").MustBool(out.Log.Console)
	out.Log.Levels[logger.DefaultTag] = log.Key("level").MustString(out.Log.Levels[logger.DefaultTag])

	out.Settle = cfg.Section("watch").Key("settle").MustDuration(out.Settle)

	return out, nil
}
