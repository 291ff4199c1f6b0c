package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/Freshhand-j/osgearth/internal/config"
)

// cmdConfig prints the effective configuration, or writes it to a file or
// the user config directory.
func cmdConfig(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	output := fs.String("o", "", "Write the config to this file")
	save := fs.Bool("save", false, "Write the config to the user config directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *save:
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved to %s\n", config.ConfigDir())
	case *output != "":
		if err := cfg.SaveTo(*output); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved to %s\n", *output)
	default:
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}
	return nil
}
