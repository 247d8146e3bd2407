package engine

// ============================================================================
// CHART BUILDER — Produces ChartSeries from Groups
// ============================================================================
// Output is chart-ready data only. Colours, axes and layout belong to the
// presentation layer.
// ============================================================================

// BuildSeries produces one series with a point per group (label = key,
// value = row count), in group order.
func BuildSeries(groups []Group, name string) []ChartSeries {
	if name == "" {
		name = "Count"
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{Label: g.Key, Value: float64(g.Count)})
	}
	return []ChartSeries{{Name: name, Data: points}}
}

// BuildStackedSeries produces one series per subgroup key, each with a point
// per outer group. Absent combinations are zero-filled so every series has
// the same labels in the same order.
//
// Series order: keys of stackOrder that occur in any subgroup, then the
// remaining keys in first-encountered order.
func BuildStackedSeries(groups []Group, stackOrder []string) []ChartSeries {
	keys := stackKeys(groups, stackOrder)
	if len(keys) == 0 {
		return []ChartSeries{}
	}

	series := make([]ChartSeries, len(keys))
	for i, key := range keys {
		series[i] = ChartSeries{Name: key, Data: make([]ChartPoint, 0, len(groups))}
	}

	for _, g := range groups {
		counts := make(map[string]int, len(g.SubGroups))
		for _, sg := range g.SubGroups {
			counts[sg.Key] += sg.Count
		}
		for i, key := range keys {
			series[i].Data = append(series[i].Data, ChartPoint{
				Label: g.Key,
				Value: float64(counts[key]),
			})
		}
	}
	return series
}

func stackKeys(groups []Group, stackOrder []string) []string {
	present := make(map[string]bool)
	var seen []string
	for _, g := range groups {
		for _, sg := range g.SubGroups {
			if !present[sg.Key] {
				present[sg.Key] = true
				seen = append(seen, sg.Key)
			}
		}
	}

	keys := make([]string, 0, len(seen))
	ranked := make(map[string]bool, len(stackOrder))
	for _, k := range stackOrder {
		if present[k] && !ranked[k] {
			ranked[k] = true
			keys = append(keys, k)
		}
	}
	for _, k := range seen {
		if !ranked[k] {
			keys = append(keys, k)
		}
	}
	return keys
}
