// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package api

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/jobrec/internal/logging"
	"github.com/tomtom215/jobrec/internal/recommend"
	"github.com/tomtom215/jobrec/internal/recommend/realtime"
)

// userRequest is the body of PUT /api/v1/users/{userID}.
type userRequest struct {
	ID             string   `json:"-" validate:"required,max=128"`
	Skills         []string `json:"skills" validate:"max=200,dive,max=100"`
	ExperienceList []string `json:"experience_list" validate:"max=100"`
	EducationList  []string `json:"education_list" validate:"max=100"`
	Languages      []string `json:"languages" validate:"max=50"`
	Specialization string   `json:"specialization" validate:"max=200"`
	Interests      []string `json:"interests" validate:"max=100"`
	City           string   `json:"city" validate:"max=100"`
	Country        string   `json:"country" validate:"max=100"`
}

func (u *userRequest) toUser() recommend.User {
	return recommend.User{
		ID:             u.ID,
		Skills:         u.Skills,
		ExperienceList: u.ExperienceList,
		EducationList:  u.EducationList,
		Languages:      u.Languages,
		Specialization: u.Specialization,
		Interests:      u.Interests,
		City:           u.City,
		Country:        u.Country,
	}
}

// changedFields lists the matching-relevant profile fields that differ.
// Field names are the ones the update coordinator recognizes.
//
//nolint:gocritic // User values are small enough to compare by value
func changedFields(before, after recommend.User) []string {
	var fields []string
	diffList := func(name string, a, b []string) {
		if !slices.Equal(a, b) {
			fields = append(fields, name)
		}
	}
	diffString := func(name, a, b string) {
		if !strings.EqualFold(a, b) {
			fields = append(fields, name)
		}
	}
	diffList("skills", before.Skills, after.Skills)
	diffList("experienceList", before.ExperienceList, after.ExperienceList)
	diffList("educationList", before.EducationList, after.EducationList)
	diffList("languages", before.Languages, after.Languages)
	diffString("specialization", before.Specialization, after.Specialization)
	diffList("interests", before.Interests, after.Interests)
	diffString("city", before.City, after.City)
	diffString("country", before.Country, after.Country)
	return fields
}

// UpsertUser handles PUT /api/v1/users/{userID}. When a matching-relevant
// field changed and the update coordinator is running, a refresh is
// scheduled and its ticket returned.
func (h *Handler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	if h.deps.Catalog == nil {
		respondUnavailable(w, "Catalog")
		return
	}

	req := userRequest{ID: chi.URLParam(r, "userID")}
	if !decodeBody(w, r, &req) {
		return
	}
	user := req.toUser()

	before, err := h.deps.Catalog.GetUser(r.Context(), user.ID)
	if err != nil && !errors.Is(err, recommend.ErrUserNotFound) {
		respondServiceError(w, err, "Failed to load user")
		return
	}
	if err := h.deps.Catalog.UpsertUser(r.Context(), user); err != nil {
		respondServiceError(w, err, "Failed to save user")
		return
	}

	data := map[string]interface{}{"user": user}
	fields := changedFields(before, user)
	data["updated_fields"] = fields

	if h.deps.Updates != nil && len(fields) > 0 {
		ticket, err := h.deps.Updates.Submit(user.ID, fields)
		switch {
		case err == nil:
			data["update"] = ticket
		case errors.Is(err, realtime.ErrNotRelevant):
			// nothing to refresh
		default:
			// The profile is saved; a refresh can be requested again later.
			logging.Ctx(r.Context()).Warn().Err(err).Str("user_id", user.ID).Msg("Failed to schedule recommendation refresh")
		}
	}

	respondSuccess(w, http.StatusOK, data, time.Time{})
}

// itemRequest is the body of PUT /api/v1/items/{itemID}.
type itemRequest struct {
	ID          string    `json:"-" validate:"required,max=128"`
	Type        string    `json:"type" validate:"omitempty,max=32"`
	Title       string    `json:"title" validate:"required,max=300"`
	Description string    `json:"description" validate:"max=20000"`
	Skills      []string  `json:"skills" validate:"max=200,dive,max=100"`
	City        string    `json:"city" validate:"max=100"`
	Country     string    `json:"country" validate:"max=100"`
	Status      string    `json:"status" validate:"omitempty,oneof=active closed"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UpsertItem handles PUT /api/v1/items/{itemID}.
func (h *Handler) UpsertItem(w http.ResponseWriter, r *http.Request) {
	if h.deps.Catalog == nil {
		respondUnavailable(w, "Catalog")
		return
	}

	req := itemRequest{ID: chi.URLParam(r, "itemID")}
	if !decodeBody(w, r, &req) {
		return
	}
	item := recommend.Item{
		ID:          req.ID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Skills:      req.Skills,
		City:        req.City,
		Country:     req.Country,
		Status:      req.Status,
		ExpiresAt:   req.ExpiresAt,
	}
	if err := h.deps.Catalog.UpsertItem(r.Context(), item); err != nil {
		respondServiceError(w, err, "Failed to save item")
		return
	}

	respondSuccess(w, http.StatusOK, item, time.Time{})
}

// interactionRequest is the body of POST /api/v1/interactions.
type interactionRequest struct {
	UserID    string            `json:"user_id" validate:"required,max=128"`
	ItemID    string            `json:"item_id" validate:"required,max=128"`
	ItemType  string            `json:"item_type" validate:"omitempty,max=32"`
	Action    string            `json:"action" validate:"required,action"`
	Duration  int               `json:"duration" validate:"gte=0,lte=86400"`
	Timestamp time.Time         `json:"timestamp"`
	Context   map[string]string `json:"context" validate:"max=20"`
}

// LogInteraction handles POST /api/v1/interactions. A repeat of the same
// action within five minutes is merged by the store; the stored row is
// returned either way.
func (h *Handler) LogInteraction(w http.ResponseWriter, r *http.Request) {
	if h.deps.Catalog == nil {
		respondUnavailable(w, "Catalog")
		return
	}

	var req interactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	action, err := recommend.ParseAction(req.Action)
	if err != nil {
		respondServiceError(w, err, "Invalid action")
		return
	}

	stored, err := h.deps.Catalog.LogInteraction(r.Context(), recommend.Interaction{
		UserID:    req.UserID,
		ItemID:    req.ItemID,
		ItemType:  req.ItemType,
		Action:    action,
		Duration:  req.Duration,
		Timestamp: req.Timestamp,
		Context:   req.Context,
	})
	if err != nil {
		respondServiceError(w, err, "Failed to log interaction")
		return
	}

	respondSuccess(w, http.StatusCreated, stored, time.Time{})
}
