package landmass

import (
	"io"
	"os"
	"runtime"

	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	// Fold tidal=yes features into land.
	IncludeTidal bool `yaml:"include_tidal"`

	// Bypass water ingestion and the land - water difference.
	SkipWater bool `yaml:"skip_water"`

	// Output polygons below this area are dropped.
	MinAreaSqm float64 `yaml:"min_area_sqm"`

	// Buffer distance (degrees) of the first repair round, doubled on
	// every further round.
	RepairEpsilon  float64 `yaml:"repair_epsilon"`
	RepairAttempts int     `yaml:"repair_attempts"`

	Workers int `yaml:"workers"`

	// GeoJSON polygon used to close coastline at the extract boundary.
	Clip string `yaml:"clip"`

	LandShapefiles  []string `yaml:"land_shapefiles"`
	WaterShapefiles []string `yaml:"water_shapefiles"`

	// RocksDB directory for the decoder's node cache, empty keeps
	// everything in memory.
	NodeCache string `yaml:"node_cache"`
}

const (
	DefaultMinAreaSqm     = 1.0
	DefaultRepairEpsilon  = 1e-7
	DefaultRepairAttempts = 2
)

func NewConfig() *Config {
	return &Config{
		IncludeTidal:   true,
		MinAreaSqm:     DefaultMinAreaSqm,
		RepairEpsilon:  DefaultRepairEpsilon,
		RepairAttempts: DefaultRepairAttempts,
		Workers:        runtime.NumCPU(),
	}
}

func ReadConfig(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseConfig(f)
}

func ParseConfig(in io.Reader) (*Config, error) {
	config := NewConfig()
	err := yaml.NewDecoder(in).Decode(config)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.RepairAttempts < 0 {
		config.RepairAttempts = 0
	}
	return config, nil
}
