package schedule

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type stopRef struct {
	route    *Route
	trip     *Trip
	stopTime *StopTime
}

// StopIndex maps stop ids to every stop time that visits them. It is built in
// a single pass over the feed and shared by all stops, so materializing the
// schedules of n stops costs one feed scan instead of n.
type StopIndex struct {
	feed *Feed
	refs map[string][]stopRef
}

// NewStopIndex walks routes, then the trips of each route, then each trip's
// stop times. References are kept in that traversal order. Trips whose route
// is not part of the feed are never reached.
func NewStopIndex(feed *Feed) *StopIndex {
	tripsByRoute := make(map[string][]*Trip, len(feed.Routes))
	for i := range feed.Trips {
		trip := &feed.Trips[i]
		tripsByRoute[trip.RouteID] = append(tripsByRoute[trip.RouteID], trip)
	}

	idx := &StopIndex{
		feed: feed,
		refs: make(map[string][]stopRef),
	}
	for i := range feed.Routes {
		route := &feed.Routes[i]
		for _, trip := range tripsByRoute[route.ID] {
			for j := range trip.StopTimes {
				st := &trip.StopTimes[j]
				idx.refs[st.Stop.ID] = append(idx.refs[st.Stop.ID], stopRef{
					route:    route,
					trip:     trip,
					stopTime: st,
				})
			}
		}
	}
	return idx
}

// Visits returns how many stop times reference stopID.
func (idx *StopIndex) Visits(stopID string) int {
	return len(idx.refs[stopID])
}

// Database materializes the schedule of stop. A trip whose service has no
// calendar aborts the whole construction.
func (idx *StopIndex) Database(stop Stop) (*Database, error) {
	refs := idx.refs[stop.ID]
	records := make([]Record, 0, len(refs))

	for _, ref := range refs {
		cal, err := idx.feed.Calendar(ref.trip.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("building schedule for stop %s (trip %s): %w", stop.ID, ref.trip.ID, err)
		}
		records = append(records, Record{
			Route:    ref.route.ShortName,
			Trip:     ref.trip.ServiceID,
			Calendar: cal,
			StopTime: cloneSeconds(ref.stopTime.ArrivalTime),
			Stop:     ref.stopTime.Stop.Name,
		})
	}

	return &Database{Records: records}, nil
}

// NewDatabase builds the schedule of a single stop straight from feed.
// Prefer NewStopIndex when more than one stop is needed.
func NewDatabase(feed *Feed, stop Stop) (*Database, error) {
	return NewStopIndex(feed).Database(stop)
}

// BuildDatabases materializes the schedules of stops concurrently. The result
// is ordered like stops. The first failure cancels the remaining work and is
// returned alone.
func BuildDatabases(ctx context.Context, idx *StopIndex, stops []Stop) ([]*Database, error) {
	dbs := make([]*Database, len(stops))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, stop := range stops {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			db, err := idx.Database(stop)
			if err != nil {
				return err
			}
			dbs[i] = db
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dbs, nil
}
