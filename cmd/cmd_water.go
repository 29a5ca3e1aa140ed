package cmd

import (
	"log"

	"github.com/rubenv/landmass/geojson"
	"github.com/rubenv/landmass/landmass"
)

type CmdWater struct {
	InputOptions

	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("water",
		"Build water polygons",
		"Assemble water areas and relations and write their union",
		&CmdWater{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdWater) Execute(args []string) error {
	r, err := cmd.prepare(cmd.global, func(c *landmass.Config) {
		c.SkipWater = false
	})
	if err != nil {
		return err
	}
	r.pipeline.WaterOnly()

	result, err := r.execute(&cmd.InputOptions, cmd.global)
	if err != nil {
		return err
	}

	log.Printf("Writing %d water polygons to %s", len(result.Water), cmd.Output)
	return geojson.WriteFile(cmd.Output, landmass.Describe(result.Water, "water"))
}
