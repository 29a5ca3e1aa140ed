package cmd

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rubenv/landmass/landmass"
)

type GlobalOptions struct {
	Config    string `short:"c" long:"config" env:"LANDMASS_CONFIG" description:"YAML configuration file"`
	NodeCache string `long:"node-cache" env:"LANDMASS_NODE_CACHE" description:"Cache nodes in a RocksDB database in this folder instead of memory"`
	Verbose   bool   `short:"v" long:"verbose" description:"Log every diagnostic"`
}

var globalOpts = GlobalOptions{}
var parser = flags.NewParser(&globalOpts, flags.HelpFlag|flags.PassDoubleDash)

func Run() error {
	// Environment defaults may come from a .env file.
	_ = godotenv.Load()

	_, err := parser.Parse()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	return err
}

func (g *GlobalOptions) LoadConfig() (*landmass.Config, error) {
	config := landmass.NewConfig()
	if g.Config != "" {
		c, err := landmass.ReadConfig(g.Config)
		if err != nil {
			return nil, err
		}
		config = c
	}
	if g.NodeCache != "" {
		config.NodeCache = g.NodeCache
	}
	return config, nil
}
