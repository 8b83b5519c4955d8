package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"p9e.in/handoff/intake"
	"p9e.in/handoff/middleware"
	"p9e.in/handoff/store"
)

// ImportSites parses an uploaded sites workbook into site rows and pricing
// columns. A workbook missing required columns gets a 422 with the
// missing-column message; the client is expected to drop any previously
// imported rows on that error.
func ImportSites(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := intake.ParseSites(file)
	if err != nil {
		var missing *intake.MissingColumnsError
		if errors.As(err, &missing) {
			http.Error(w, missing.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "could not read workbook: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// SitesTemplate serves the downloadable xlsx template with the expected
// header row and one example row.
func SitesTemplate(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("sites_template_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := intake.WriteTemplate(w); err != nil {
		http.Error(w, "failed to generate template", http.StatusInternalServerError)
	}
}

type validateReq struct {
	Draft            intake.Draft `json:"draft"`
	SiteCount        int          `json:"siteCount"`
	ContractAttached bool         `json:"contractAttached"`
}

type validateResp struct {
	Items        []intake.Item `json:"items"`
	Missing      []intake.Item `json:"missing"`
	AllSatisfied bool          `json:"allSatisfied"`
	Percent      int           `json:"percent"`
}

// ValidateDraft evaluates the draft's required-field checklist. The service
// line/service type coupling is re-applied before validating, so a stale
// service type in the payload comes back corrected.
func ValidateDraft(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	req.Draft.SetServiceLine(req.Draft.ServiceLine)
	report := intake.Validate(&req.Draft, req.SiteCount, req.ContractAttached)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(validateResp{
		Items:        report.Items,
		Missing:      report.Missing(),
		AllSatisfied: report.AllSatisfied,
		Percent:      report.Percent(),
	})
}

type submitPayload struct {
	Draft          intake.Draft         `json:"draft"`
	Sites          []intake.SiteRow     `json:"sites"`
	PricingColumns []intake.PricingItem `json:"pricingColumns"`
}

// SubmitHandoff runs the submission pipeline. The request is multipart: a
// "payload" part with the draft, sites and pricing columns, plus one or more
// "contract" file parts.
func SubmitHandoff(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(100 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	var payload submitPayload
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &payload); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	payload.Draft.SetServiceLine(payload.Draft.ServiceLine)

	var contracts []intake.File
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["contract"] {
			f, err := fh.Open()
			if err != nil {
				http.Error(w, "read contract: "+err.Error(), http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, "read contract: "+err.Error(), http.StatusBadRequest)
				return
			}
			contracts = append(contracts, intake.File{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}

	report := intake.Validate(&payload.Draft, len(payload.Sites), len(contracts) > 0)
	if !report.AllSatisfied {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   "required fields incomplete",
			"missing": report.Missing(),
		})
		return
	}

	id, err := Pipeline.Submit(r.Context(), intake.Submission{
		Draft:          &payload.Draft,
		Sites:          payload.Sites,
		PricingColumns: payload.PricingColumns,
		Contracts:      contracts,
		Actor:          claims.Name,
		ActorEmail:     claims.Email,
	})
	if err != nil {
		if errors.Is(err, intake.ErrSubmissionInFlight) {
			http.Error(w, "a submission is already in progress", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// GetAllHandoffs lists handoffs, optionally filtered by query parameters
// (client, status).
func GetAllHandoffs(w http.ResponseWriter, r *http.Request) {
	filters := map[string]any{}
	if v := r.URL.Query().Get("client"); v != "" {
		filters["client"] = v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filters["status"] = v
	}

	handoffs, err := Records.QueryHandoffs(r.Context(), filters)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handoffs)
}

func GetHandoff(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h, err := Records.GetHandoff(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "handoff not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h)
}

// UpdateHandoff saves edits to a persisted handoff. The request carries the
// full modified record; only the keys that actually differ from the stored
// version are written (shallow diff, whole nested values). No changes is a
// 204.
func UpdateHandoff(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var modified map[string]any
	if err := json.NewDecoder(r.Body).Decode(&modified); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	h, err := Records.GetHandoff(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "handoff not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	original, err := toDocument(h)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// Server-managed keys never participate in the diff.
	for _, k := range []string{"id", "updatedAt"} {
		delete(original, k)
		delete(modified, k)
	}

	changes := intake.Diff(original, modified)
	if changes == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	for k, v := range changes {
		if v == intake.Removed {
			changes[k] = nil
		}
	}

	applied, err := Records.UpdateHandoff(r.Context(), id, changes)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(applied)
}

func DeleteHandoff(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := Records.DeleteHandoff(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "handoff not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// toDocument flattens a model to its JSON document form for diffing.
func toDocument(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
