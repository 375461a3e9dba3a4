// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vibelive/adminpanel/internal/store"
)

// Importer copies legacy class documents into the records table.
type Importer struct {
	db      *sql.DB
	queries *store.Queries
	logger  *slog.Logger
}

// NewImporter creates an Importer.
func NewImporter(db *sql.DB, logger *slog.Logger) *Importer {
	return &Importer{
		db:      db,
		queries: store.New(db),
		logger:  logger,
	}
}

// Import connects to the legacy MongoDB and copies every requested
// class into the local records table. Only classes registered as
// collections are eligible; one bad document does not stop the run.
func (i *Importer) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	result := NewImportResult(opts.DryRun)

	classes, err := i.resolveClasses(ctx, opts.Classes)
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, errors.New("no registered collections to import")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to legacy database: %w", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("legacy database is unreachable: %w", err)
	}

	legacyDB := client.Database(opts.Database)

	for _, class := range classes {
		if err := i.importClass(ctx, legacyDB, class, opts, result); err != nil {
			i.logger.Error("failed to import class", "class", class, "error", err)
			result.AddError(class, "", err.Error())
		}
	}

	return result, nil
}

// resolveClasses validates requested classes against the registry, or
// returns all registered collections when none were requested.
func (i *Importer) resolveClasses(ctx context.Context, requested []string) ([]string, error) {
	collections, err := i.queries.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	registered := make(map[string]bool, len(collections))
	var all []string
	for _, c := range collections {
		registered[c.Name] = true
		all = append(all, c.Name)
	}

	if len(requested) == 0 {
		return all, nil
	}

	var classes []string
	for _, class := range requested {
		if !registered[class] {
			return nil, fmt.Errorf("class %q is not a registered collection", class)
		}
		classes = append(classes, class)
	}
	return classes, nil
}

func (i *Importer) importClass(ctx context.Context, legacyDB *mongo.Database, class string, opts ImportOptions, result *ImportResult) error {
	cursor, err := legacyDB.Collection(class).Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query class: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			result.AddError(class, "", "failed to decode document: "+err.Error())
			continue
		}

		id, fields, createdAt, updatedAt := ConvertDocument(doc)
		if id == "" {
			result.AddError(class, "", "document has no usable id")
			continue
		}

		if opts.DryRun {
			result.Imported[class]++
			continue
		}

		if opts.SkipExisting {
			if _, err := i.queries.GetRecord(ctx, store.GetRecordParams{ClassName: class, ID: id}); err == nil {
				result.Skipped[class]++
				continue
			}
		}

		_, err := i.queries.CreateRecord(ctx, store.CreateRecordParams{
			ClassName: class,
			ID:        id,
			Fields:    fields,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		})
		if err != nil {
			result.AddError(class, id, err.Error())
			continue
		}
		result.Imported[class]++
	}

	if err := cursor.Err(); err != nil {
		return fmt.Errorf("cursor error: %w", err)
	}

	i.logger.Info("imported class",
		"class", class,
		"imported", result.Imported[class],
		"skipped", result.Skipped[class],
	)
	return nil
}

// ConvertDocument turns a legacy document into a record id, a field
// map, and timestamps. Legacy metadata keys are stripped from the
// field map.
func ConvertDocument(doc bson.M) (id string, fields map[string]any, createdAt, updatedAt time.Time) {
	now := time.Now()
	createdAt, updatedAt = now, now
	fields = make(map[string]any, len(doc))

	for key, value := range doc {
		switch key {
		case "_id":
			id = stringifyID(value)
		case "_created_at", "createdAt":
			if t, ok := toTime(value); ok {
				createdAt = t
			}
		case "_updated_at", "updatedAt":
			if t, ok := toTime(value); ok {
				updatedAt = t
			}
		case "_acl", "_rperm", "_wperm", "_hashed_password", "_session_token":
			// Parse-internal bookkeeping, never exposed in the panel.
		default:
			fields[key] = ConvertValue(value)
		}
	}

	return id, fields, createdAt, updatedAt
}

// ConvertValue maps legacy BSON values to the panel's JSON field
// representation. Parse operator objects (Date, File, Pointer) are
// flattened to plain values.
func ConvertValue(value any) any {
	switch v := value.(type) {
	case primitive.DateTime:
		return v.Time().UTC().Format(time.RFC3339)
	case primitive.ObjectID:
		return v.Hex()
	case primitive.Decimal128:
		return v.String()
	case bson.M:
		return convertMap(v)
	case map[string]any:
		return convertMap(v)
	case bson.A:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, ConvertValue(item))
		}
		return out
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case int32:
		return int64(v)
	default:
		return v
	}
}

func convertMap(m map[string]any) any {
	switch m["__type"] {
	case "Date":
		if iso, ok := m["iso"].(string); ok {
			return iso
		}
	case "File":
		name, _ := m["name"].(string)
		url, _ := m["url"].(string)
		return map[string]any{"name": name, "url": url}
	case "Pointer":
		if objectID, ok := m["objectId"].(string); ok {
			return objectID
		}
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = ConvertValue(v)
	}
	return out
}

func stringifyID(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	default:
		return ""
	}
}

func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case primitive.DateTime:
		return v.Time(), true
	case time.Time:
		return v, true
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
