// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package recommend

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Action classifies an explicit or implicit user-item interaction.
type Action string

const (
	// ActionView indicates the user opened the job posting.
	ActionView Action = "view"
	// ActionLike indicates the user liked the posting.
	ActionLike Action = "like"
	// ActionApply indicates the user applied to the job.
	ActionApply Action = "apply"
	// ActionSave indicates the user bookmarked the posting.
	ActionSave Action = "save"
	// ActionIgnore indicates the user dismissed the posting.
	ActionIgnore Action = "ignore"
)

// ErrInvalidAction is returned when parsing an unknown action name.
var ErrInvalidAction = errors.New("invalid interaction action")

// Weight returns the user-item matrix weight for this action.
// Negative values encode explicit disinterest.
func (a Action) Weight() float64 {
	switch a {
	case ActionApply:
		return 1.0
	case ActionLike:
		return 0.8
	case ActionSave:
		return 0.7
	case ActionView:
		return 0.3
	case ActionIgnore:
		return -0.5
	default:
		return 0
	}
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionLike, ActionApply, ActionSave, ActionIgnore:
		return true
	default:
		return false
	}
}

// ParseAction converts a case-insensitive action name.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
	return a, nil
}

// Interaction represents a single user-item interaction event.
type Interaction struct {
	// ID is the store-assigned identifier.
	ID string `json:"id"`

	// UserID identifies the acting user.
	UserID string `json:"user_id"`

	// ItemID identifies the item acted upon.
	ItemID string `json:"item_id"`

	// ItemType is the kind of item, normally "job".
	ItemType string `json:"item_type"`

	// Action is what the user did.
	Action Action `json:"action"`

	// Duration is the dwell time in seconds.
	Duration int `json:"duration"`

	// Timestamp is when the interaction occurred.
	Timestamp time.Time `json:"timestamp"`

	// Context carries free-form client metadata (page, device, referrer).
	Context map[string]string `json:"context,omitempty"`
}

// InteractionFilter narrows an interaction scan. Zero fields match everything.
type InteractionFilter struct {
	UserID   string
	ItemType string
	Actions  []Action
	Since    time.Time
}

// User is the profile read by the content matcher.
type User struct {
	ID             string   `json:"id"`
	Skills         []string `json:"skills"`
	ExperienceList []string `json:"experience_list"`
	EducationList  []string `json:"education_list"`
	Languages      []string `json:"languages"`
	Specialization string   `json:"specialization"`
	Interests      []string `json:"interests"`
	City           string   `json:"city"`
	Country        string   `json:"country"`
}

// Item status values.
const (
	ItemStatusActive = "active"
	ItemStatusClosed = "closed"
)

// Item is a recommendable entity, in practice a job posting.
type Item struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Active reports whether the item can still be recommended at now.
func (i *Item) Active(now time.Time) bool {
	if i.Status != ItemStatusActive {
		return false
	}
	return i.ExpiresAt.IsZero() || i.ExpiresAt.After(now)
}

// Source identifies which strategy produced a recommendation.
type Source string

const (
	SourceContent       Source = "content"
	SourceCollaborative Source = "collaborative"
	SourceHybrid        Source = "hybrid"
)

// Recommendation is a single ranked item for a user.
type Recommendation struct {
	// ItemID is the recommended item.
	ItemID string `json:"item_id"`

	// Score is the final relevance score in [0, 100].
	Score float64 `json:"score"`

	// Confidence in [0, 1] reflects how much evidence backs the score.
	Confidence float64 `json:"confidence"`

	// Source is the strategy that contributed the score.
	Source Source `json:"source"`

	// Reasons are human-readable explanations.
	Reasons []string `json:"reasons,omitempty"`

	// ContentScore is the content matcher score before blending.
	ContentScore float64 `json:"content_score"`

	// CollaborativeScore is the neighbour-based score before blending.
	CollaborativeScore float64 `json:"collaborative_score"`

	// SupportingUsers is the number of neighbours that contributed.
	SupportingUsers int `json:"supporting_users"`
}

// MatchResult is the content matcher's verdict for one user-item pair.
type MatchResult struct {
	// Score is in [0, 100].
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

// Request contains parameters for a recommendation request.
type Request struct {
	// UserID is the user to generate recommendations for.
	UserID string `json:"user_id" validate:"required"`

	// Limit is the maximum number of recommendations to return.
	// Zero uses the configured default.
	Limit int `json:"limit" validate:"gte=0,lte=100"`

	// MinScore drops recommendations whose final score is below it.
	MinScore float64 `json:"min_score" validate:"gte=0,lte=100"`

	// ItemType overrides the configured item type.
	ItemType string `json:"item_type,omitempty"`
}

// Response contains the recommendation results.
type Response struct {
	UserID          string           `json:"user_id"`
	Recommendations []Recommendation `json:"recommendations"`
	Metadata        ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	Strategy         string    `json:"strategy"`
	Weights          Weights   `json:"weights"`
	CandidatesScored int       `json:"candidates_scored"`
	ContentFailures  int       `json:"content_failures"`
	GeneratedAt      time.Time `json:"generated_at"`
	LatencyMs        int64     `json:"latency_ms"`
}
