package landmass

func pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func rect(x0, y0, x1, y1 float64) []Point {
	return []Point{pt(x0, y0), pt(x1, y0), pt(x1, y1), pt(x0, y1), pt(x0, y0)}
}

func square(id int64, x0, y0, x1, y1 float64) Polygon {
	return Polygon{
		ID:    id,
		Outer: Ring{ID: id, Points: rect(x0, y0, x1, y1), Sources: []int64{id}},
	}
}

func coastline(id int64, points ...Point) Feature {
	return Feature{
		ID:     id,
		Tags:   Tags{"natural": "coastline"},
		Points: points,
	}
}

func member(id, relation int64, tags Tags, role string, points ...Point) Feature {
	return Feature{
		ID:     id,
		Points: points,
		Member: &Membership{
			Relation: relation,
			Tags:     tags,
			Role:     role,
		},
	}
}

func totalArea(polys []Polygon) float64 {
	a := 0.0
	for _, p := range polys {
		a += p.Area()
	}
	return a
}

func near(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
