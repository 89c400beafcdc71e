// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"cmp"
	"fmt"
	"math"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/cropguard/internal/devserver"
	"github.com/MKhiriev/cropguard/internal/utils"
	"github.com/MKhiriev/cropguard/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	topN            = 5
)

// query parameters that never become field filters
var reservedParams = map[string]bool{
	"page":      true,
	"page_size": true,
	"search":    true,
	"ordering":  true,
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidID, chi.URLParam(r, "id"))
	}
	return id, nil
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (h *Handler) collection(name string) *devserver.Collection {
	return h.backend.Resources[name]
}

func (h *Handler) pageURL(r *http.Request, page int) *string {
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	u := h.publicURL + r.URL.Path + "?" + q.Encode()
	return &u
}

func (h *Handler) listRecords(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		page := positiveInt(params.Get("page"), 1)
		size := min(positiveInt(params.Get("page_size"), defaultPageSize), maxPageSize)

		q := devserver.Query{Filters: make(map[string]string), Search: params.Get("search")}
		for k := range params {
			if !reservedParams[k] {
				q.Filters[k] = params.Get(k)
			}
		}

		all := h.collection(name).Find(q)
		out := models.Page[devserver.Record]{Count: len(all), Results: []devserver.Record{}}

		start := (page - 1) * size
		if start < len(all) {
			end := min(start+size, len(all))
			out.Results = all[start:end]
			if end < len(all) {
				out.Next = h.pageURL(r, page+1)
			}
		}
		if page > 1 {
			out.Previous = h.pageURL(r, page-1)
		}

		utils.WriteJSON(w, out, http.StatusOK)
	}
}

func (h *Handler) createRecord(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec devserver.Record
		if err := decodeJSON(w, r, &rec); err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, h.collection(name).Create(rec), http.StatusCreated)
	}
}

func (h *Handler) getRecord(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		rec, err := h.collection(name).Get(id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, rec, http.StatusOK)
	}
}

func (h *Handler) updateRecord(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var patch devserver.Record
		if err = decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, err)
			return
		}
		rec, err := h.collection(name).Update(id, patch)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, rec, http.StatusOK)
	}
}

func (h *Handler) deleteRecord(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err = h.collection(name).Delete(id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// byFarm returns records of resource attached to the farm in the URL,
// newest first.
func (h *Handler) byFarm(r *http.Request, resource string) ([]devserver.Record, error) {
	id, err := parseID(r)
	if err != nil {
		return nil, err
	}
	if _, err = h.collection(devserver.ResourceFarms).Get(id); err != nil {
		return nil, err
	}
	recs := h.collection(resource).Find(devserver.Query{Filters: map[string]string{"farm": strconv.FormatInt(id, 10)}})
	slices.Reverse(recs)
	return recs, nil
}

func (h *Handler) farmWeather(w http.ResponseWriter, r *http.Request) {
	recs, err := h.byFarm(r, devserver.ResourceWeather)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, recs, http.StatusOK)
}

func (h *Handler) recentDetections(w http.ResponseWriter, r *http.Request) {
	recs, err := h.byFarm(r, devserver.ResourceDetections)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, recs[:min(topN, len(recs))], http.StatusOK)
}

func (h *Handler) confirmDetection(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body models.DetectionConfirmation
	if err = decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err = h.collection(devserver.ResourceDetections).Update(id, devserver.Record{"is_confirmed": body.IsCorrect}); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, map[string]string{"status": "confirmed"}, http.StatusOK)
}

func (h *Handler) detectionFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body models.DetectionFeedback
	if err = decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.Rating < 0 || body.Rating > 5 {
		writeError(w, r, fmt.Errorf("%w: rating must be between 0 and 5", devserver.ErrInvalidDataProvided))
		return
	}
	if _, err = h.collection(devserver.ResourceDetections).Update(id, devserver.Record{"feedback": body}); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, map[string]string{"status": "feedback recorded"}, http.StatusOK)
}

// unread treats alerts without an is_read field as unread.
func (h *Handler) unread() []devserver.Record {
	recs := h.collection(devserver.ResourceAlerts).Find(devserver.Query{})
	return slices.DeleteFunc(recs, func(rec devserver.Record) bool {
		read, _ := rec["is_read"].(bool)
		return read
	})
}

func (h *Handler) unreadAlerts(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSON(w, h.unread(), http.StatusOK)
}

func (h *Handler) markAlertRead(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err = h.collection(devserver.ResourceAlerts).Update(id, devserver.Record{"is_read": true}); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, map[string]string{"status": "read"}, http.StatusOK)
}

func (h *Handler) markAllAlertsRead(w http.ResponseWriter, _ *http.Request) {
	alerts := h.collection(devserver.ResourceAlerts)
	updated := 0
	for _, rec := range h.unread() {
		if _, err := alerts.Update(rec.ID(), devserver.Record{"is_read": true}); err == nil {
			updated++
		}
	}
	utils.WriteJSON(w, map[string]int{"updated": updated}, http.StatusOK)
}

func (h *Handler) trendingPrices(w http.ResponseWriter, _ *http.Request) {
	recs := h.collection(devserver.ResourceMarketPrices).Find(devserver.Query{})
	slices.SortStableFunc(recs, func(a, b devserver.Record) int {
		return cmp.Compare(math.Abs(b.Number("change_percentage")), math.Abs(a.Number("change_percentage")))
	})
	utils.WriteJSON(w, recs[:min(topN, len(recs))], http.StatusOK)
}

func (h *Handler) applyRecommendation(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err = h.collection(devserver.ResourceRecommendations).Update(id, devserver.Record{"is_applied": true}); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, map[string]string{"status": "applied"}, http.StatusOK)
}
