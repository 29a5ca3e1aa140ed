package landmass

import (
	"strings"
	"testing"

	"github.com/cheekybits/is"
)

func TestParseConfig(t *testing.T) {
	is := is.New(t)

	in := `
include_tidal: false
min_area_sqm: 10
repair_attempts: 4
workers: 0
clip: extract.geojson
water_shapefiles:
    - water-polygons-split-4326.zip
node_cache: /tmp/landmass
`

	cfg, err := ParseConfig(strings.NewReader(in))
	is.NoErr(err)
	is.NotNil(cfg)
	is.False(cfg.IncludeTidal)
	is.False(cfg.SkipWater)
	is.Equal(cfg.MinAreaSqm, 10.0)
	is.Equal(cfg.RepairAttempts, 4)
	is.Equal(cfg.RepairEpsilon, DefaultRepairEpsilon)
	is.Equal(cfg.Workers, 1)
	is.Equal(cfg.Clip, "extract.geojson")
	is.Equal(len(cfg.WaterShapefiles), 1)
	is.Equal(len(cfg.LandShapefiles), 0)
	is.Equal(cfg.NodeCache, "/tmp/landmass")
}

func TestParseConfigEmpty(t *testing.T) {
	is := is.New(t)

	cfg, err := ParseConfig(strings.NewReader(""))
	is.NoErr(err)
	is.True(cfg.IncludeTidal)
	is.Equal(cfg.MinAreaSqm, DefaultMinAreaSqm)
	is.Equal(cfg.RepairAttempts, DefaultRepairAttempts)
	is.True(cfg.Workers >= 1)
}

func TestParseConfigInvalid(t *testing.T) {
	is := is.New(t)

	_, err := ParseConfig(strings.NewReader("workers: [1, 2"))
	is.Err(err)
}
