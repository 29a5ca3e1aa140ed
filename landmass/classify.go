package landmass

// Tags maps OSM tag keys to values.
type Tags map[string]string

// Feature is a decoded way, either free-standing or as a member of a
// multipolygon relation.
type Feature struct {
	ID     int64
	Tags   Tags
	Points []Point

	// Set when the feature arrived as a relation member.
	Member *Membership
}

type Membership struct {
	Relation int64
	Tags     Tags
	Role     string
}

type Class uint8

const (
	Irrelevant Class = iota
	Land
	Water
)

func (c Class) String() string {
	switch c {
	case Land:
		return "land"
	case Water:
		return "water"
	default:
		return "irrelevant"
	}
}

type Role uint8

const (
	Outer Role = iota
	Inner
)

func (r Role) String() string {
	if r == Inner {
		return "inner"
	}
	return "outer"
}

// Classification is the tagged result of Classify.
type Classification struct {
	Class Class

	// Relation is non-zero for relation members.
	Relation int64
	Role     Role
}

func (c Classification) IsMember() bool {
	return c.Relation != 0
}

var waterTags = map[string][]string{
	"natural":  {"water", "wetland"},
	"waterway": {"riverbank", "dock"},
	"landuse":  {"reservoir", "basin"},
}

// IsLand reports whether tags describe a land-contributing boundary.
func IsLand(tags Tags, includeTidal bool) bool {
	if tags["natural"] == "coastline" {
		return true
	}
	return includeTidal && tags["tidal"] == "yes"
}

// IsWater reports whether tags describe a water area.
func IsWater(tags Tags) bool {
	if _, ok := tags["water"]; ok {
		return true
	}
	for k, values := range waterTags {
		v, ok := tags[k]
		if !ok {
			continue
		}
		for _, w := range values {
			if v == w {
				return true
			}
		}
	}
	return false
}

// IsMultipolygon reports whether relation tags describe an area relation.
func IsMultipolygon(tags Tags) bool {
	return tags["type"] == "multipolygon"
}

// Relevant reports whether a feature with these tags can contribute to
// the landmass. Decoders use it to skip resolving irrelevant ways.
func (c *Config) Relevant(tags Tags) bool {
	return IsLand(tags, c.IncludeTidal) || IsWater(tags)
}

// Classify tags a feature as land, water or irrelevant.
func Classify(f Feature, config *Config) Classification {
	tags := f.Tags
	if f.Member != nil {
		if !IsMultipolygon(f.Member.Tags) {
			return Classification{}
		}
		tags = f.Member.Tags
	}

	var class Class
	switch {
	case IsLand(tags, config.IncludeTidal):
		class = Land
	case IsWater(tags):
		class = Water
	default:
		return Classification{}
	}

	c := Classification{Class: class}
	if f.Member != nil {
		c.Relation = f.Member.Relation
		if f.Member.Role == "inner" {
			c.Role = Inner
		}
	}
	return c
}
