// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
)

// Topic names.
const (
	TopicProfileUpdated       = "profile.updated"
	TopicRecommendationsReady = "recommendations.ready"
)

// ErrInvalidPayload marks messages that can never be processed.
var ErrInvalidPayload = errors.New("invalid event payload")

// ProfileUpdated announces that a user changed profile fields.
type ProfileUpdated struct {
	UserID        string    `json:"user_id"`
	UpdatedFields []string  `json:"updated_fields"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// RecommendationsReady tells downstream delivery that a user has fresh
// recommendations.
type RecommendationsReady struct {
	UserID      string    `json:"user_id"`
	Message     string    `json:"message"`
	PublishedAt time.Time `json:"published_at"`
}

// NewMessage encodes payload as a Watermill message with a fresh UUID.
func NewMessage(payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("content_type", "application/json")
	return msg, nil
}

// DecodeProfileUpdated parses a profile.updated payload.
func DecodeProfileUpdated(msg *message.Message) (ProfileUpdated, error) {
	var ev ProfileUpdated
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return ProfileUpdated{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if ev.UserID == "" {
		return ProfileUpdated{}, fmt.Errorf("%w: missing user_id", ErrInvalidPayload)
	}
	return ev, nil
}

// DecodeRecommendationsReady parses a recommendations.ready payload.
func DecodeRecommendationsReady(msg *message.Message) (RecommendationsReady, error) {
	var ev RecommendationsReady
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return RecommendationsReady{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if ev.UserID == "" {
		return RecommendationsReady{}, fmt.Errorf("%w: missing user_id", ErrInvalidPayload)
	}
	return ev, nil
}
