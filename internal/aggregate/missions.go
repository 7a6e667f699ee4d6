// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package aggregate

import (
	"sort"

	"github.com/tomtom215/patrolmap/internal/models"
)

// DefaultMissionLimit is the mission leaderboard length used by the dashboard.
const DefaultMissionLimit = 20

// MissionRow is one mission group on the leaderboard.
type MissionRow struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	Count        float64 `json:"count"`
	SelfReported float64 `json:"selfReported"`
	RecordPieces float64 `json:"recordPieces"`
}

type missionGroup struct {
	row   MissionRow
	named bool
}

// MissionLeaderboard ranks mission groups. Each group sums two sources
// independently: the missions' own reported totals and the pieces of the
// records that reference them. The displayed count is the larger of the two.
// Hidden missions, and references to ids with no mission document, do not
// contribute. A record referencing several missions of one group counts once
// for that group.
func MissionLeaderboard(missions map[string]models.Mission, records []models.Record, limit int) []MissionRow {
	ids := make([]string, 0, len(missions))
	for id := range missions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make(map[string]*missionGroup)
	for _, id := range ids {
		m := missions[id]
		if m.Hidden {
			continue
		}
		key := m.GroupKey()
		g, ok := groups[key]
		if !ok {
			g = &missionGroup{row: MissionRow{Key: key, Name: m.DisplayName()}}
			g.named = key == models.SkyCareGroup || m.Name != ""
			groups[key] = g
		} else if !g.named && m.Name != "" {
			g.row.Name = m.Name
			g.named = true
		}
		g.row.SelfReported += m.TotalPieces
	}

	for i := range records {
		r := &records[i]
		pieces := r.Pieces
		if pieces < 0 {
			pieces = 0
		}
		seen := make(map[string]struct{}, len(r.MissionIDs))
		for _, id := range r.MissionIDs {
			m, ok := missions[id]
			if !ok || m.Hidden {
				continue
			}
			key := m.GroupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			groups[key].row.RecordPieces += pieces
		}
	}

	rows := make([]MissionRow, 0, len(groups))
	for _, g := range groups {
		g.row.Count = max(g.row.SelfReported, g.row.RecordPieces)
		if g.row.Count > 0 {
			rows = append(rows, g.row)
		}
	}

	c := newCollator()
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		if cmp := c.CompareString(rows[i].Name, rows[j].Name); cmp != 0 {
			return cmp < 0
		}
		return rows[i].Key < rows[j].Key
	})
	return truncate(rows, limit)
}
