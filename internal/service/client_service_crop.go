// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MKhiriev/cropguard/internal/adapter"
	"github.com/MKhiriev/cropguard/models"
)

const defaultPageSize = 20

type cropService struct {
	session adapter.SessionTokenManager
}

// NewCropService returns a [CropService] that calls the advisory REST API
// through session.
func NewCropService(session adapter.SessionTokenManager) CropService {
	return &cropService{session: session}
}

// get decodes an authenticated GET of endpoint into T.
func get[T any](ctx context.Context, s adapter.SessionTokenManager, endpoint string) (T, error) {
	var out T
	res, err := s.Request(ctx, endpoint, http.MethodGet, nil, true)
	if err != nil {
		return out, err
	}
	return out, res.Decode(&out)
}

// send issues method with body and decodes the response into T, unless the
// server answered 204.
func send[T any](ctx context.Context, s adapter.SessionTokenManager, method, endpoint string, body any) (T, error) {
	var out T
	res, err := s.Request(ctx, endpoint, method, body, true)
	if err != nil {
		return out, err
	}
	if res.NoContent {
		return out, nil
	}
	return out, res.Decode(&out)
}

func pageQuery(endpoint string, p models.PageRequest) string {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("page_size", strconv.Itoa(p.PageSize))
	return endpoint + "?" + q.Encode()
}

func filterQuery(endpoint, key, value string) string {
	q := url.Values{}
	q.Set(key, value)
	return endpoint + "?" + q.Encode()
}

// ── Farms ────────────────────────────────────────────────────────────────────

func (s *cropService) ListFarms(ctx context.Context, page models.PageRequest) (models.Page[models.Farm], error) {
	return get[models.Page[models.Farm]](ctx, s.session, pageQuery("/farms/", page))
}

func (s *cropService) SearchFarms(ctx context.Context, query string) (models.Page[models.Farm], error) {
	return get[models.Page[models.Farm]](ctx, s.session, filterQuery("/farms/", "search", query))
}

func (s *cropService) FarmsByRegion(ctx context.Context, region string) (models.Page[models.Farm], error) {
	return get[models.Page[models.Farm]](ctx, s.session, filterQuery("/farms/", "region", region))
}

func (s *cropService) GetFarm(ctx context.Context, id int64) (models.Farm, error) {
	return get[models.Farm](ctx, s.session, fmt.Sprintf("/farms/%d/", id))
}

func (s *cropService) CreateFarm(ctx context.Context, farm models.Farm) (models.Farm, error) {
	return send[models.Farm](ctx, s.session, http.MethodPost, "/farms/", farm)
}

func (s *cropService) UpdateFarm(ctx context.Context, id int64, patch map[string]any) (models.Farm, error) {
	return send[models.Farm](ctx, s.session, http.MethodPatch, fmt.Sprintf("/farms/%d/", id), patch)
}

func (s *cropService) DeleteFarm(ctx context.Context, id int64) error {
	_, err := s.session.Request(ctx, fmt.Sprintf("/farms/%d/", id), http.MethodDelete, nil, true)
	return err
}

func (s *cropService) FarmWeather(ctx context.Context, id int64) ([]models.Weather, error) {
	return get[[]models.Weather](ctx, s.session, fmt.Sprintf("/farms/%d/weather/", id))
}

func (s *cropService) RecentDetections(ctx context.Context, farmID int64) ([]models.Detection, error) {
	return get[[]models.Detection](ctx, s.session, fmt.Sprintf("/farms/%d/recent_detections/", farmID))
}

// ── Detections ───────────────────────────────────────────────────────────────

func (s *cropService) ListDetections(ctx context.Context, page models.PageRequest) (models.Page[models.Detection], error) {
	return get[models.Page[models.Detection]](ctx, s.session, pageQuery("/detections/", page))
}

func (s *cropService) FilterDetections(ctx context.Context, disease string) (models.Page[models.Detection], error) {
	return get[models.Page[models.Detection]](ctx, s.session, filterQuery("/detections/", "detected_disease", disease))
}

func (s *cropService) GetDetection(ctx context.Context, id int64) (models.Detection, error) {
	return get[models.Detection](ctx, s.session, fmt.Sprintf("/detections/%d/", id))
}

func (s *cropService) CreateDetection(ctx context.Context, d models.Detection) (models.Detection, error) {
	return send[models.Detection](ctx, s.session, http.MethodPost, "/detections/", d)
}

func (s *cropService) ConfirmDetection(ctx context.Context, id int64, isCorrect bool) error {
	_, err := s.session.Request(ctx, fmt.Sprintf("/detections/%d/confirm/", id), http.MethodPost,
		models.DetectionConfirmation{IsCorrect: isCorrect}, true)
	return err
}

func (s *cropService) DetectionFeedback(ctx context.Context, id int64, feedback models.DetectionFeedback) error {
	_, err := s.session.Request(ctx, fmt.Sprintf("/detections/%d/feedback/", id), http.MethodPost, feedback, true)
	return err
}

// ── Weather ──────────────────────────────────────────────────────────────────

func (s *cropService) ListWeather(ctx context.Context, page models.PageRequest) (models.Page[models.Weather], error) {
	return get[models.Page[models.Weather]](ctx, s.session, pageQuery("/weather/", page))
}

// ── Alerts ───────────────────────────────────────────────────────────────────

func (s *cropService) ListAlerts(ctx context.Context, page models.PageRequest) (models.Page[models.Alert], error) {
	return get[models.Page[models.Alert]](ctx, s.session, pageQuery("/alerts/", page))
}

func (s *cropService) UnreadAlerts(ctx context.Context) ([]models.Alert, error) {
	return get[[]models.Alert](ctx, s.session, "/alerts/unread/")
}

func (s *cropService) MarkAlertRead(ctx context.Context, id int64) error {
	_, err := s.session.Request(ctx, fmt.Sprintf("/alerts/%d/mark_read/", id), http.MethodPost, nil, true)
	return err
}

func (s *cropService) MarkAllAlertsRead(ctx context.Context) error {
	_, err := s.session.Request(ctx, "/alerts/mark_all_read/", http.MethodPost, nil, true)
	return err
}

// ── Market prices ────────────────────────────────────────────────────────────

func (s *cropService) ListMarketPrices(ctx context.Context, page models.PageRequest) (models.Page[models.MarketPrice], error) {
	return get[models.Page[models.MarketPrice]](ctx, s.session, pageQuery("/market-prices/", page))
}

func (s *cropService) TrendingPrices(ctx context.Context) ([]models.MarketPrice, error) {
	return get[[]models.MarketPrice](ctx, s.session, "/market-prices/trending/")
}

// ── Recommendations ──────────────────────────────────────────────────────────

func (s *cropService) ListRecommendations(ctx context.Context, page models.PageRequest) (models.Page[models.Recommendation], error) {
	return get[models.Page[models.Recommendation]](ctx, s.session, pageQuery("/recommendations/", page))
}

func (s *cropService) GetRecommendation(ctx context.Context, id int64) (models.Recommendation, error) {
	return get[models.Recommendation](ctx, s.session, fmt.Sprintf("/recommendations/%d/", id))
}

func (s *cropService) ApplyRecommendation(ctx context.Context, id int64) error {
	_, err := s.session.Request(ctx, fmt.Sprintf("/recommendations/%d/apply/", id), http.MethodPost, nil, true)
	return err
}
