// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

// Package validation provides struct validation using go-playground/validator v10.
//
// Features:
//   - Singleton validator instance (thread-safe, caches struct info)
//   - Field names reported by their json tag
//   - "action" tag accepting the interaction actions view, like, apply, save and ignore
//   - Error translation to the VALIDATION_ERROR API format
//
// Example usage:
//
//	type interactionRequest struct {
//	    UserID string `json:"user_id" validate:"required,max=128"`
//	    Action string `json:"action" validate:"required,action"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
