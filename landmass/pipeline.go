package landmass

import (
	"context"
	"log"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Source streams decoded features in a single forward pass. Decode
// calls fn once per feature, never concurrently.
type Source interface {
	Decode(ctx context.Context, fn func(Feature) error) error
}

// FeatureSlice is an in-memory Source.
type FeatureSlice []Feature

func (s FeatureSlice) Decode(ctx context.Context, fn func(Feature) error) error {
	for _, f := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

type Stats struct {
	Features       int     `json:"features"`
	LandFragments  int     `json:"land_fragments"`
	WaterAreas     int     `json:"water_areas"`
	LandRelations  int     `json:"land_relations"`
	WaterRelations int     `json:"water_relations"`
	LandRings      int     `json:"land_rings"`
	OpenChains     int     `json:"open_chains"`
	LandPolygons   int     `json:"land_polygons"`
	WaterPolygons  int     `json:"water_polygons"`
	LandUnion      int     `json:"land_union"`
	WaterUnion     int     `json:"water_union"`
	Landmass       int     `json:"landmass"`
	LandmassSqm    float64 `json:"landmass_sqm"`
}

type Result struct {
	Landmass []LandmassPolygon

	// Land and water unions before the difference step. Water is nil
	// when water is skipped.
	Land  []Polygon
	Water []Polygon

	Diagnostics []Diagnostic
	Stats       Stats
}

// Pipeline runs decode, classify, assemble, resolve, combine and build
// as consecutive stages.
type Pipeline struct {
	config     *Config
	clip       *Polygon
	extraLand  []Polygon
	extraWater []Polygon
	waterOnly  bool
}

func NewPipeline(config *Config) *Pipeline {
	return &Pipeline{
		config: config,
	}
}

// Clip closes open coastline along boundary and restricts the landmass
// to it.
func (p *Pipeline) Clip(boundary Polygon) *Pipeline {
	p.clip = &boundary
	return p
}

func (p *Pipeline) AddLand(polys []Polygon) *Pipeline {
	p.extraLand = append(p.extraLand, polys...)
	return p
}

func (p *Pipeline) AddWater(polys []Polygon) *Pipeline {
	p.extraWater = append(p.extraWater, polys...)
	return p
}

// WaterOnly stops after the water union; land is not assembled.
func (p *Pipeline) WaterOnly() *Pipeline {
	p.waterOnly = true
	return p
}

type collected struct {
	land      []Fragment
	water     []Fragment
	relations map[int64]*Relation
}

func (c *collected) sortedRelations(class Class) []*Relation {
	out := make([]*Relation, 0)
	for _, r := range c.relations {
		if r.Class == class {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (p *Pipeline) wants(class Class) bool {
	switch class {
	case Land:
		return !p.waterOnly
	case Water:
		return !p.config.SkipWater
	default:
		return false
	}
}

func (p *Pipeline) Run(ctx context.Context, src Source) (*Result, error) {
	diag := NewDiagnostics()
	engine := NewEngine(p.config, diag)
	result := &Result{}
	stats := &result.Stats

	// Decode and classify
	in := &collected{relations: make(map[int64]*Relation)}
	features := make(chan Feature, 100)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(features)
		return src.Decode(gctx, func(f Feature) error {
			select {
			case features <- f:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})
	g.Go(func() error {
		for f := range features {
			stats.Features++
			c := Classify(f, p.config)
			if !p.wants(c.Class) {
				continue
			}

			frag := Fragment{
				ID:       f.ID,
				Points:   f.Points,
				Class:    c.Class,
				Directed: c.Class == Land,
			}
			switch {
			case c.IsMember():
				rel, ok := in.relations[c.Relation]
				if !ok {
					rel = &Relation{ID: c.Relation, Class: c.Class}
					in.relations[c.Relation] = rel
				}
				rel.Members = append(rel.Members, Member{Fragment: frag, Role: c.Role})
			case c.Class == Land:
				in.land = append(in.land, frag)
			default:
				in.water = append(in.water, frag)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	landRelations := in.sortedRelations(Land)
	waterRelations := in.sortedRelations(Water)
	stats.LandFragments = len(in.land)
	stats.WaterAreas = len(in.water)
	stats.LandRelations = len(landRelations)
	stats.WaterRelations = len(waterRelations)
	log.Printf("Classified %d features: %d land fragments, %d water areas, %d land relations, %d water relations",
		stats.Features, stats.LandFragments, stats.WaterAreas, stats.LandRelations, stats.WaterRelations)

	// Assemble and resolve, land and water side by side
	var land, water []Polygon
	var prep errgroup.Group
	if !p.waterOnly {
		prep.Go(func() error {
			assembly := AssembleRings(in.land, diag)
			stats.LandRings = len(assembly.Rings)
			stats.OpenChains = len(assembly.Open)

			land = ringsToPolygons(assembly.Rings)
			for _, rel := range landRelations {
				land = append(land, ResolveRelation(rel, diag)...)
			}
			if p.clip != nil {
				closed := CloseAlongBoundary(assembly.Open, p.clip.Outer, diag)
				land = append(land, ringsToPolygons(closed)...)
			}
			land = append(land, p.extraLand...)
			return nil
		})
	}
	if !p.config.SkipWater {
		prep.Go(func() error {
			for _, f := range in.water {
				if r, ok := CloseArea(f, diag); ok {
					water = append(water, Polygon{ID: r.ID, Outer: r})
				}
			}
			for _, rel := range waterRelations {
				water = append(water, ResolveRelation(rel, diag)...)
			}
			water = append(water, p.extraWater...)
			return nil
		})
	}
	prep.Wait()
	stats.LandPolygons = len(land)
	stats.WaterPolygons = len(water)
	log.Printf("Built %d land polygons (%d rings, %d open chains), %d water polygons",
		stats.LandPolygons, stats.LandRings, stats.OpenChains, stats.WaterPolygons)

	// Union
	var union errgroup.Group
	union.Go(func() error {
		result.Land = engine.Union(land)
		return nil
	})
	if !p.config.SkipWater {
		union.Go(func() error {
			result.Water = engine.Union(water)
			return nil
		})
	}
	union.Wait()
	stats.LandUnion = len(result.Land)
	stats.WaterUnion = len(result.Water)
	log.Printf("Union: %d land, %d water", stats.LandUnion, stats.WaterUnion)

	if !p.waterOnly {
		coverage := result.Land
		if !p.config.SkipWater {
			coverage = engine.Difference(result.Land, result.Water)
		}
		if p.clip != nil {
			coverage = engine.Clip(coverage, *p.clip)
		}

		result.Landmass = BuildLandmass(coverage, p.config.MinAreaSqm, diag)
		stats.Landmass = len(result.Landmass)
		for _, lp := range result.Landmass {
			stats.LandmassSqm += lp.AreaSqm
		}
		log.Printf("Landmass: %d polygons, %.2f km²", stats.Landmass, stats.LandmassSqm/1e6)
	}

	result.Diagnostics = diag.Drain()
	counts := CountByKind(result.Diagnostics)
	for _, k := range Kinds(counts) {
		log.Printf("Diagnostics: %d %s", counts[k], k)
	}

	return result, nil
}

func ringsToPolygons(rings []Ring) []Polygon {
	polys := make([]Polygon, len(rings))
	for i, r := range rings {
		polys[i] = Polygon{ID: r.ID, Outer: r}
	}
	return polys
}
