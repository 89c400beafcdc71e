// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	router.Route("/api", func(r chi.Router) {
		r.Use(withGZip)
		if h.requestTimeout > 0 {
			r.Use(middleware.Timeout(h.requestTimeout))
		}

		// routes without authorization
		r.Get("/", h.health)
		r.Post("/auth/register/", h.register)
		r.Post("/auth/token/", h.login)
		r.Post("/auth/token/refresh/", h.refresh)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Post("/storage/generate-s3-url", h.generateS3URL)
			r.Post("/storage/generate-azure-sas", h.generateAzureSAS)
			r.Delete("/storage/delete-file", h.deleteFile)
			r.Post("/storage/list-files", h.listFiles)
			r.Post("/storage/file-metadata", h.fileMetadata)
			r.Get("/storage/usage", h.storageUsage)

			for name := range h.backend.Resources {
				h.mountResource(r, name)
			}

			r.Get("/farms/{id}/weather/", h.farmWeather)
			r.Get("/farms/{id}/recent_detections/", h.recentDetections)
			r.Post("/detections/{id}/confirm/", h.confirmDetection)
			r.Post("/detections/{id}/feedback/", h.detectionFeedback)
			r.Get("/alerts/unread/", h.unreadAlerts)
			r.Post("/alerts/{id}/mark_read/", h.markAlertRead)
			r.Post("/alerts/mark_all_read/", h.markAllAlertsRead)
			r.Get("/market-prices/trending/", h.trendingPrices)
			r.Post("/recommendations/{id}/apply/", h.applyRecommendation)
		})
	})

	// blobs are read publicly and written through signed URLs only
	router.Get("/blobs/*", h.getBlob)
	router.With(h.withBlobSignature).Put("/blobs/*", h.putBlob)

	router.MethodNotAllowed(CheckHTTPMethod())

	return router
}

func (h *Handler) mountResource(r chi.Router, name string) {
	base := "/" + name + "/"
	r.Get(base, h.listRecords(name))
	r.Post(base, h.createRecord(name))
	r.Get(base+"{id}/", h.getRecord(name))
	r.Put(base+"{id}/", h.updateRecord(name))
	r.Patch(base+"{id}/", h.updateRecord(name))
	r.Delete(base+"{id}/", h.deleteRecord(name))
}
