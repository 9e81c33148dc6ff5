package restapi

import (
	"net/http"
	"time"

	"transpors.dev/internal/models"
	"transpors.dev/internal/schedule"
	"transpors.dev/internal/timetable"
	"transpors.dev/internal/utils"
)

type departureParams struct {
	query schedule.Query
	after int
	limit int
}

// parseDepartureParams reads date, after and limit. Without a date the query
// runs for today's local date.
func (api *RestAPI) parseDepartureParams(r *http.Request) (departureParams, map[string][]string) {
	values := r.URL.Query()
	fieldErrors := make(map[string][]string)
	params := departureParams{query: schedule.QueryAt(api.Now())}

	if date := values.Get("date"); date != "" {
		if err := utils.ValidateDate(date); err != nil {
			fieldErrors["date"] = append(fieldErrors["date"], err.Error())
		} else {
			parsed, _ := utils.ParseDate(date)
			params.query = schedule.Query{Date: parsed, Weekday: parsed.Weekday()}
		}
	}

	if after := values.Get("after"); after != "" {
		if err := utils.ValidateTimeOfDay(after); err != nil {
			fieldErrors["after"] = append(fieldErrors["after"], err.Error())
		} else {
			params.after, _ = utils.ParseTimeOfDay(after)
		}
	}

	limit, err := utils.ParseLimit(values.Get("limit"))
	if err != nil {
		fieldErrors["limit"] = append(fieldErrors["limit"], err.Error())
	}
	params.limit = limit

	if len(fieldErrors) > 0 {
		return params, fieldErrors
	}
	return params, nil
}

// stopDepartures answers the query for one stop and reports whether the
// limit cut anything off.
func (api *RestAPI) stopDepartures(stop *timetable.Stop, params departureParams) (models.StopDepartures, bool) {
	start := time.Now()
	d := api.Timetables.DeparturesFor(stop, params.query)
	if api.Metrics != nil {
		api.Metrics.ObserveQuery(stop.ID, time.Since(start))
	}

	upcoming := timetable.Upcoming(d, params.after, 0)
	limited := timetable.Upcoming(upcoming, 0, params.limit)
	return models.NewStopDepartures(limited, params.query), len(limited.Departures) < len(upcoming.Departures)
}

func (api *RestAPI) departuresHandler(w http.ResponseWriter, r *http.Request) {
	params, fieldErrors := api.parseDepartureParams(r)
	if fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	stops := api.Timetables.Stops()
	list := make([]models.StopDepartures, 0, len(stops))
	limitExceeded := false
	for i := range stops {
		entry, cut := api.stopDepartures(&stops[i], params)
		list = append(list, entry)
		limitExceeded = limitExceeded || cut
	}

	api.sendResponse(w, r, models.NewListResponse(list, limitExceeded))
}

func (api *RestAPI) stopDeparturesHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	params, fieldErrors := api.parseDepartureParams(r)
	if fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	stop, ok := api.Timetables.Stop(id)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	entry, _ := api.stopDepartures(stop, params)
	api.sendResponse(w, r, models.NewEntryResponse(entry))
}
