// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package models

import (
	"regexp"
	"strings"
)

const (
	// SkyCareGroup is the group key of every "Sky Care ..." mission variant.
	SkyCareGroup = "sky care"

	// SkyCareName is the display name of the Sky Care family.
	SkyCareName = "Sky Care"

	// UnnamedMission is the display name used when no mission in a group has a name.
	UnnamedMission = "Unnamed mission"
)

var missionSpace = regexp.MustCompile(`\s+`)

// Mission is a named collection campaign.
type Mission struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Hidden      bool    `json:"hidden"`
	TotalPieces float64 `json:"totalPieces"`

	Raw Document `json:"-"`
}

// missionPieceFields are tried in order; the first present, non-null field wins.
var missionPieceFields = []string{"totalPieces", "pieces", "piecesCollected", "collectedPieces"}

// ParseMission reads a raw mission document.
func ParseMission(id string, doc Document) Mission {
	m := Mission{
		ID:   id,
		Name: strings.TrimSpace(String(doc["name"])),
		Raw:  doc,
	}
	if hidden, ok := doc["hidden"].(bool); ok {
		m.Hidden = hidden
	}
	for _, field := range missionPieceFields {
		v, ok := doc[field]
		if !ok || v == nil {
			continue
		}
		if n, ok := ToNumber(v); ok {
			m.TotalPieces = n
		}
		break
	}
	return m
}

// ParseMissions reads a mission map keyed by id.
func ParseMissions(docs map[string]Document) map[string]Mission {
	out := make(map[string]Mission, len(docs))
	for id, doc := range docs {
		if doc == nil {
			continue
		}
		out[id] = ParseMission(id, doc)
	}
	return out
}

// NormalizeMissionName trims, collapses whitespace and lower-cases.
func NormalizeMissionName(name string) string {
	return strings.ToLower(missionSpace.ReplaceAllString(strings.TrimSpace(name), " "))
}

// GroupKey returns the leaderboard group of a mission: the Sky Care family,
// else the normalized name, else a per-identifier key.
func (m Mission) GroupKey() string {
	normalized := NormalizeMissionName(m.Name)
	switch {
	case strings.HasPrefix(normalized, SkyCareGroup):
		return SkyCareGroup
	case normalized != "":
		return normalized
	default:
		return "id:" + m.ID
	}
}

// DisplayName returns the leaderboard label for the mission's group.
func (m Mission) DisplayName() string {
	if m.GroupKey() == SkyCareGroup {
		return SkyCareName
	}
	if m.Name != "" {
		return m.Name
	}
	return UnnamedMission
}
