package profile

import (
	"net/http"
	"time"

	"github.com/frankotendo/geolevelup/internal/rest"
	"github.com/frankotendo/geolevelup/internal/utils"
)

// RequestDate reads the "date" query parameter as a day in the current profile's timezone,
// defaulting to today. On failure it writes the error response and reports false.
func RequestDate(w http.ResponseWriter, r *http.Request, now time.Time) (time.Time, bool) {
	p, err := Current(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Unknown user", err.Error())
		return time.Time{}, false
	}
	date, err := utils.DateOrToday(r.URL.Query().Get("date"), now, p.Location())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "date must be in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return date, true
}
