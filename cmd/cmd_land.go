package cmd

import (
	"log"

	"github.com/rubenv/landmass/geojson"
	"github.com/rubenv/landmass/landmass"
)

type CmdLand struct {
	InputOptions

	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("land",
		"Build land polygons",
		"Assemble coastline into land polygons and write their union, without water removal",
		&CmdLand{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdLand) Execute(args []string) error {
	r, err := cmd.prepare(cmd.global, func(c *landmass.Config) {
		c.SkipWater = true
	})
	if err != nil {
		return err
	}

	result, err := r.execute(&cmd.InputOptions, cmd.global)
	if err != nil {
		return err
	}
	if len(result.Land) == 0 {
		return errNoLand
	}

	log.Printf("Writing %d land polygons to %s", len(result.Land), cmd.Output)
	return geojson.WriteFile(cmd.Output, landmass.Describe(result.Land, "land"))
}
