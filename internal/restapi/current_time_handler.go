package restapi

import (
	"net/http"

	"transpors.dev/internal/models"
)

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewEntryResponse(models.NewCurrentTimeModel(api.Now())))
}
