// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/patrolmap/internal/logging"
	"github.com/tomtom215/patrolmap/internal/metrics"
	"github.com/tomtom215/patrolmap/internal/models"
)

// Collection names.
const (
	CollectionPhotos     = "photos"
	CollectionMissions   = "missions"
	CollectionWaterTests = "waterTests"
)

// MongoConfig configures the MongoDB source.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Mongo reads collections from a MongoDB database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo connects and pings the server.
func OpenMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is required")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongo database is required")
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(dctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, readError("Mongo", fmt.Errorf("connect: %w", err))
	}
	if err := client.Ping(dctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, readError("Mongo", fmt.Errorf("ping: %w", err))
	}

	logging.Info().
		Str("uri", redactURI(cfg.URI)).
		Str("database", cfg.Database).
		Msg("Connected to MongoDB")

	return &Mongo{client: client, db: client.Database(cfg.Database)}, nil
}

// Name implements Source.
func (m *Mongo) Name() string { return "Mongo" }

// Records implements Source.
func (m *Mongo) Records(ctx context.Context) (map[string]models.Document, error) {
	return m.find(ctx, CollectionPhotos, bson.M{}, nil)
}

// Missions implements Source.
func (m *Mongo) Missions(ctx context.Context) (map[string]models.Document, error) {
	return m.find(ctx, CollectionMissions, bson.M{}, nil)
}

// WaterTests implements Source.
func (m *Mongo) WaterTests(ctx context.Context, testType string, limit int) (map[string]models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateTime", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return m.find(ctx, CollectionWaterTests, bson.M{"type": testType}, opts)
}

func (m *Mongo) find(ctx context.Context, collection string, filter bson.M, opts *options.FindOptions) (docs map[string]models.Document, err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstreamRead("mongo", time.Since(start), err) }()

	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := m.db.Collection(collection).Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, readError(m.Name(), err)
	}
	defer cur.Close(ctx)

	docs = make(map[string]models.Document)
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, readError(m.Name(), err)
		}
		id, doc := keyed(raw)
		if id == "" {
			continue
		}
		docs[id] = doc
	}
	if err := cur.Err(); err != nil {
		return nil, readError(m.Name(), err)
	}
	return docs, nil
}

// Ping implements Source.
func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, nil); err != nil {
		return readError(m.Name(), err)
	}
	return nil
}

// Close implements Source.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// redactURI strips credentials from a connection string before logging.
func redactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<invalid uri>"
	}
	if u.User != nil {
		u.User = url.User("***")
	}
	return u.String()
}
