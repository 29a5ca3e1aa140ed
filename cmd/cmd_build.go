package cmd

import (
	"log"

	"github.com/rubenv/landmass/geojson"
	"github.com/rubenv/landmass/landmass"
)

type CmdBuild struct {
	InputOptions

	LandOutput  string `long:"land-output" description:"Also write the land union before water removal"`
	WaterOutput string `long:"water-output" description:"Also write the water union"`
	SkipWater   bool   `long:"skip-water" description:"Do not subtract water"`

	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("build",
		"Build landmass polygons",
		"Assemble coastline into land, subtract water bodies and write the landmass as GeoJSON",
		&CmdBuild{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdBuild) Execute(args []string) error {
	r, err := cmd.prepare(cmd.global, func(c *landmass.Config) {
		if cmd.SkipWater {
			c.SkipWater = true
		}
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

	if cmd.LandOutput != "" {
		err = geojson.WriteFile(cmd.LandOutput, landmass.Describe(result.Land, "land"))
		if err != nil {
			return err
		}
	}
	if cmd.WaterOutput != "" && result.Water != nil {
		err = geojson.WriteFile(cmd.WaterOutput, landmass.Describe(result.Water, "water"))
		if err != nil {
			return err
		}
	}

	log.Printf("Writing %d polygons to %s", len(result.Landmass), cmd.Output)
	return geojson.WriteFile(cmd.Output, result.Landmass)
}
