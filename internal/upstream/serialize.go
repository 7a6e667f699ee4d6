// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package upstream

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/patrolmap/internal/models"
)

// isoMillis is the timestamp layout of serialized documents.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Serialize converts a decoded store value into plain JSON types.
// Timestamps become ISO 8601 strings in UTC; object ids become hex
// strings; decimals become numbers.
func Serialize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case primitive.DateTime:
		return x.Time().UTC().Format(isoMillis)
	case time.Time:
		return x.UTC().Format(isoMillis)
	case primitive.Timestamp:
		return time.Unix(int64(x.T), 0).UTC().Format(isoMillis)
	case primitive.ObjectID:
		return x.Hex()
	case primitive.Decimal128:
		if f, err := strconv.ParseFloat(x.String(), 64); err == nil {
			return f
		}
		return x.String()
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case bson.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = Serialize(e.Value)
		}
		return out
	case bson.M:
		return serializeMap(x)
	case map[string]any:
		return serializeMap(x)
	case bson.A:
		return serializeSlice(x)
	case []any:
		return serializeSlice(x)
	default:
		return v
	}
}

func serializeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Serialize(v)
	}
	return out
}

func serializeSlice(items []any) []any {
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = Serialize(v)
	}
	return out
}

// documentID returns the "_id" of a raw document as a string.
func documentID(doc map[string]any) string {
	switch id := doc["_id"].(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return models.String(Serialize(id))
	}
}

// keyed serializes a raw document and splits off its identifier.
func keyed(raw bson.M) (string, models.Document) {
	id := documentID(raw)
	doc := serializeMap(raw)
	delete(doc, "_id")
	return id, doc
}
