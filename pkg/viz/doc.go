// Package viz shapes record collections into visualization nodes.
//
// Every builder produces exactly one [tree.Node], publishes it through the
// layout publisher and returns it, so the node can be fed into the facet
// composer afterwards:
//
//	b := viz.NewBuilder(pub, logger)
//	chart, err := b.LineChart(ctx, metrics, viz.LineChartOptions{
//	    X:     "steps",
//	    Y:     "values",
//	    Color: group.Fields("run.hash"),
//	})
//	if err != nil {
//	    return err
//	}
//	_, err = facet.Group(ctx, pub, chart, facet.Options{Row: group.Fields("metric.name")})
//
// Builders copy the records they are given. Colors and stroke patterns are
// assigned from fixed palettes by group order, wrapping around.
package viz
