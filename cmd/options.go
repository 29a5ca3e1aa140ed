package cmd

import (
	"context"
	"errors"
	"log"

	"github.com/kr/pretty"
	"github.com/rubenv/landmass/geojson"
	"github.com/rubenv/landmass/landmass"
	"github.com/rubenv/landmass/pbf"
)

// InputOptions are shared by all commands that read an extract.
type InputOptions struct {
	Input    string `short:"i" long:"input" required:"true" description:"Input .osm.pbf file"`
	Output   string `short:"o" long:"output" required:"true" description:"Output GeoJSON file"`
	Clip     string `long:"clip" description:"GeoJSON polygon closing coastline at the extract boundary"`
	NoTidal  bool   `long:"no-tidal" description:"Do not treat tidal=yes features as land"`
	Report   string `long:"report" description:"Write a JSON diagnostics report to this file"`
	Progress bool   `long:"progress" description:"Show a progress bar while decoding"`
}

type run struct {
	config   *landmass.Config
	pipeline *landmass.Pipeline
	loadDiag *landmass.Diagnostics
}

func (o *InputOptions) prepare(global *GlobalOptions, adjust func(*landmass.Config)) (*run, error) {
	config, err := global.LoadConfig()
	if err != nil {
		return nil, err
	}
	if o.NoTidal {
		config.IncludeTidal = false
	}
	if o.Clip != "" {
		config.Clip = o.Clip
	}
	if adjust != nil {
		adjust(config)
	}

	r := &run{
		config:   config,
		pipeline: landmass.NewPipeline(config),
		loadDiag: landmass.NewDiagnostics(),
	}

	if config.Clip != "" {
		boundary, err := geojson.ReadPolygonFile(config.Clip)
		if err != nil {
			return nil, err
		}
		r.pipeline.Clip(boundary)
	}

	shapes := landmass.NewShapefileReader()
	if !config.SkipWater {
		for _, zipfile := range config.WaterShapefiles {
			polys, err := shapes.Read(zipfile, r.loadDiag)
			if err != nil {
				return nil, err
			}
			r.pipeline.AddWater(polys)
		}
	}
	for _, zipfile := range config.LandShapefiles {
		polys, err := shapes.Read(zipfile, r.loadDiag)
		if err != nil {
			return nil, err
		}
		r.pipeline.AddLand(polys)
	}

	return r, nil
}

func (r *run) execute(o *InputOptions, global *GlobalOptions) (*landmass.Result, error) {
	var store pbf.Store
	if r.config.NodeCache != "" {
		s, err := pbf.NewRocksStore(r.config.NodeCache)
		if err != nil {
			return nil, err
		}
		store = s
	} else {
		store = pbf.NewMemoryStore()
	}
	defer store.Close()

	decoder := pbf.NewDecoder(o.Input, store)
	decoder.Wanted = r.config.Relevant
	decoder.Progress = o.Progress

	log.Printf("Processing %s", o.Input)
	result, err := r.pipeline.Run(context.Background(), decoder)
	if err != nil {
		return nil, err
	}
	result.Diagnostics = append(r.loadDiag.Drain(), result.Diagnostics...)

	if global.Verbose {
		for _, ev := range result.Diagnostics {
			log.Printf("%# v", pretty.Formatter(ev))
		}
	}

	if o.Report != "" {
		err = writeReport(o.Report, o.Input, result)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

var errNoLand = errors.New("No land polygons found in input")
