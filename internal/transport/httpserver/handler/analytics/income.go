package analytics

import (
	"net/http"
	"strings"
	"time"

	analyticsdomain "rental-app-go/internal/domain/analytics"
	"rental-app-go/internal/domain/lifecycle"
	commonhandler "rental-app-go/internal/transport/httpserver/handler/common"
)

// landlord resolves and authorizes the landlord whose income is read.
func (h *Handlers) landlord(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	actor, ok := commonhandler.ActorFromRequest(w, r)
	if !ok {
		return "", false
	}

	landlordID := strings.TrimSpace(r.URL.Query().Get("landlord_id"))
	if landlordID == "" {
		landlordID = actor.UserID
	}
	if err := commonhandler.AuthorizeLandlord(r.Context(), h.Delegation, actor, landlordID, lifecycle.CapabilityPayments); err != nil {
		commonhandler.WriteServiceError(w, h.log, op, err, "user_id", actor.UserID, "landlord_id", landlordID)
		return "", false
	}
	return landlordID, true
}

func (h *Handlers) IncomeSummary(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := h.landlord(w, r, "analytics.summary")
	if !ok {
		return
	}

	filter, ok := parseIncomeFilter(w, r)
	if !ok {
		return
	}

	result, err := h.Analytics.Summary(r.Context(), landlordID, filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "analytics.summary", err, "landlord_id", landlordID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"from":    lifecycle.FormatDate(filter.From),
		"to":      lifecycle.FormatDate(filter.To),
		"summary": result,
	})
}

func (h *Handlers) IncomeMonthly(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := h.landlord(w, r, "analytics.monthly")
	if !ok {
		return
	}

	filter, ok := parseIncomeFilter(w, r)
	if !ok {
		return
	}

	rows, err := h.Analytics.Monthly(r.Context(), landlordID, filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "analytics.monthly", err, "landlord_id", landlordID)
		return
	}

	commonhandler.WriteList(w, rows)
}

func (h *Handlers) TopProperties(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := h.landlord(w, r, "analytics.top_properties")
	if !ok {
		return
	}

	result, err := h.Analytics.TopProperties(r.Context(), landlordID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "analytics.top_properties", err, "landlord_id", landlordID)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) IncomeCompare(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := h.landlord(w, r, "analytics.compare")
	if !ok {
		return
	}

	query := r.URL.Query()
	var filter analyticsdomain.CompareFilter
	fields := []struct {
		name string
		dst  *time.Time
	}{
		{"from_a", &filter.FromA},
		{"to_a", &filter.ToA},
		{"from_b", &filter.FromB},
		{"to_b", &filter.ToB},
	}
	for _, field := range fields {
		value, err := commonhandler.ParseDateRequired(query.Get(field.name))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", field.name+" is required")
			return
		}
		*field.dst = value
	}
	filter.PropertyIDs = commonhandler.ParseCSV(query.Get("property_ids"))

	result, err := h.Analytics.Compare(r.Context(), landlordID, filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "analytics.compare", err, "landlord_id", landlordID)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func parseIncomeFilter(w http.ResponseWriter, r *http.Request) (analyticsdomain.IncomeFilter, bool) {
	query := r.URL.Query()
	from, err := commonhandler.ParseDateRequired(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from is required")
		return analyticsdomain.IncomeFilter{}, false
	}
	to, err := commonhandler.ParseDateRequired(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "to is required")
		return analyticsdomain.IncomeFilter{}, false
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "invalid_request", "from must be <= to")
		return analyticsdomain.IncomeFilter{}, false
	}

	return analyticsdomain.IncomeFilter{
		From:        from,
		To:          to,
		PropertyIDs: commonhandler.ParseCSV(query.Get("property_ids")),
	}, true
}
