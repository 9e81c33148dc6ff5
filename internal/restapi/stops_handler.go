package restapi

import (
	"net/http"
	"strings"

	"transpors.dev/internal/models"
	"transpors.dev/internal/utils"
)

// stopsHandler lists the configured stops, optionally filtered by ?q= on the
// stop name.
func (api *RestAPI) stopsHandler(w http.ResponseWriter, r *http.Request) {
	query, err := utils.ValidateAndSanitizeQuery(r.URL.Query().Get("q"))
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"q": {err.Error()}})
		return
	}
	needle := strings.ToLower(query)

	stops := api.Timetables.Stops()
	list := make([]models.Stop, 0, len(stops))
	for i := range stops {
		if needle != "" && !strings.Contains(strings.ToLower(stops[i].Name), needle) {
			continue
		}
		list = append(list, models.NewStop(&stops[i]))
	}

	api.sendResponse(w, r, models.NewListResponse(list, false))
}
