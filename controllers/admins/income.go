package admins

import (
	"log"
	"net/http"
	"os"

	"github.com/nur922184/server-workbd/income"
	"github.com/nur922184/server-workbd/utils"
)

var distributor *income.Distributor

// SetDistributor wires the shared income distributor; called once at startup.
func SetDistributor(d *income.Distributor) {
	distributor = d
}

// POST /v3/admins/cron/daily-income
// Guarded by X-CRON-KEY so an external scheduler can trigger it without an
// admin session. Re-triggering while a run is in flight is a no-op.
func RunDailyIncome(w http.ResponseWriter, r *http.Request) {
	key := os.Getenv("CRON_KEY")
	if key == "" || r.Header.Get("X-CRON-KEY") != key {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if distributor == nil {
		utils.WriteFailure(w, http.StatusServiceUnavailable, "Distributor not ready")
		return
	}

	res, err := distributor.Run(r.Context())
	if err != nil {
		log.Printf("[cron] daily income run failed: %v", err)
		utils.WriteFailure(w, http.StatusInternalServerError, "Distribution failed")
		return
	}
	if res.SkippedRun {
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "A distribution run is already in progress",
			Data:    res,
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Distribution complete",
		Data:    res,
	})
}
