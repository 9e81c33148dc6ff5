package restapi

import (
	"errors"
	"net/http"

	"transpors.dev/gtfsdb"
	"transpors.dev/internal/models"
)

func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status": "ok",
		"stops":  len(api.Timetables.Stops()),
	}

	if api.Store != nil {
		meta, err := api.Store.GetImportMetadata(r.Context())
		switch {
		case errors.Is(err, gtfsdb.ErrNoImportMetadata):
		case err != nil:
			api.serverErrorResponse(w, r, err)
			return
		default:
			health["feedHash"] = meta.FileHash
			health["importedAt"] = meta.ImportTime.UnixMilli()
		}
	}

	api.sendResponse(w, r, models.NewOKResponse(health))
}
