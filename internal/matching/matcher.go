// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package matching

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/tomtom215/jobrec/internal/recommend"
)

// Component weights of the reference score.
const (
	SkillsWeight   = 60.0
	KeywordsWeight = 25.0
	LocationWeight = 15.0
)

// stopWords are dropped from keyword sets.
var stopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"work": true, "team": true, "role": true, "job": true, "join": true,
	"senior": true, "junior": true, "lead": true, "remote": true, "new": true,
}

// Matcher is the reference skill/keyword/location scorer.
type Matcher struct{}

// NewMatcher returns the reference matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Score rates how well item fits user.
//
//nolint:gocritic // User and Item passed by value to match recommend.ContentMatcher
func (m *Matcher) Score(ctx context.Context, user recommend.User, item recommend.Item) (recommend.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return recommend.MatchResult{}, err
	}

	var (
		score   float64
		reasons []string
	)

	if s, matched := skillScore(user.Skills, item.Skills); s > 0 {
		score += s
		reasons = append(reasons, fmt.Sprintf("Matches %d of %d required skills: %s",
			len(matched), len(normalizeSet(item.Skills)), strings.Join(matched, ", ")))
	}

	if s, matched := keywordScore(user, item.Title); s > 0 {
		score += s
		reasons = append(reasons, "Title matches your background: "+strings.Join(matched, ", "))
	}

	if s, reason := locationScore(user, item); s > 0 {
		score += s
		reasons = append(reasons, reason)
	}

	return recommend.MatchResult{
		Score:   math.Round(math.Min(score, 100)*10) / 10,
		Reasons: reasons,
	}, nil
}

func skillScore(userSkills, jobSkills []string) (float64, []string) {
	required := normalizeSet(jobSkills)
	if len(required) == 0 {
		return 0, nil
	}
	have := normalizeSet(userSkills)
	var matched []string
	for s := range required {
		if have[s] {
			matched = append(matched, s)
		}
	}
	slices.Sort(matched)
	return SkillsWeight * float64(len(matched)) / float64(len(required)), matched
}

//nolint:gocritic // User passed by value for read-only access
func keywordScore(user recommend.User, title string) (float64, []string) {
	titleKW := extractKeywords(title)
	if len(titleKW) == 0 {
		return 0, nil
	}
	profile := extractKeywords(strings.Join(slices.Concat(
		[]string{user.Specialization},
		user.Skills, user.Interests, user.ExperienceList, user.EducationList,
	), " "))

	var matched []string
	for kw := range titleKW {
		if profile[kw] {
			matched = append(matched, kw)
		}
	}
	slices.Sort(matched)
	return KeywordsWeight * float64(len(matched)) / float64(len(titleKW)), matched
}

//nolint:gocritic // values passed for read-only access
func locationScore(user recommend.User, item recommend.Item) (float64, string) {
	if user.City != "" && strings.EqualFold(user.City, item.City) {
		return LocationWeight, "Located in your city"
	}
	if user.Country != "" && strings.EqualFold(user.Country, item.Country) {
		return LocationWeight / 2, "Located in your country"
	}
	return 0, ""
}

func normalizeSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			set[v] = true
		}
	}
	return set
}

// extractKeywords tokenizes text into lowercase keywords of at least three
// characters, skipping stop words. '+', '#' and '.' are word characters so
// "c++", "c#" and "node.js" survive.
func extractKeywords(text string) map[string]bool {
	kw := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if len([]rune(w)) >= 3 && !stopWords[w] {
			kw[w] = true
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return kw
}
