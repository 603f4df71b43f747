package marble

type point struct {
	pos   Position
	layer int
}

// DeriveHigherOrderLinks connects observable markers on root layers to the
// start of the nearest child observable in the same block. Operator layers
// split blocks. Each parent is matched independently; several parents may
// share a child, and ties go to the child seen first.
func DeriveHigherOrderLinks(layers []Layer) []Link {
	var links []Link
	blockStart := 0
	for i := 0; i <= len(layers); i++ {
		if i < len(layers) && layers[i].Kind != LayerOperator {
			continue
		}
		links = appendBlockLinks(links, layers, blockStart, i)
		blockStart = i + 1
	}
	return links
}

func appendBlockLinks(links []Link, layers []Layer, from, to int) []Link {
	var parents, children []point
	for y := from; y < to; y++ {
		obs := layers[y].Observable
		if layers[y].Kind != LayerObservable || obs == nil {
			continue
		}
		if obs.IsChild {
			children = append(children, point{pos: obs.Start, layer: y})
			continue
		}
		for _, at := range obs.Markers() {
			parents = append(parents, point{pos: at, layer: y})
		}
	}
	if len(children) == 0 {
		return links
	}

	for _, p := range parents {
		best := children[0]
		bestDist := distance(p.pos, best.pos)
		for _, c := range children[1:] {
			if d := distance(p.pos, c.pos); d < bestDist {
				best, bestDist = c, d
			}
		}
		links = append(links, Link{
			FromX: int(p.pos),
			FromY: p.layer,
			ToX:   int(best.pos),
			ToY:   best.layer,
		})
	}
	return links
}

func distance(a, b Position) Position {
	if a > b {
		return a - b
	}
	return b - a
}
