// Package weaviate implements the vector index on top of a Weaviate class.
// Namespaces are modeled as a property on each object and filtered on every
// operation, so one deployment's collections stay logically partitioned.
package weaviate

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"docent/internal/vector"
)

// ErrDimensionMismatch reports a vector whose length differs from the index's
// configured embedding dimension. This is a configuration fault, fatal for
// the batch, never retried.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

type Store struct {
	client    *weaviate.Client
	dimension int
}

func NewStore(client *weaviate.Client, dimension int) *Store {
	return &Store{client: client, dimension: dimension}
}

// Upsert writes a batch of items into the namespace and returns how many were
// stored. Object UUIDs are derived from namespace and item id, so re-writing
// an id replaces the earlier object instead of duplicating it.
func (s *Store) Upsert(ctx context.Context, items []vector.Item, namespace string) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	objects := make([]*models.Object, 0, len(items))
	for _, item := range items {
		if len(item.Vector) != s.dimension {
			return 0, fmt.Errorf("%w: item %s has %d dimensions, index expects %d",
				ErrDimensionMismatch, item.ID, len(item.Vector), s.dimension)
		}
		objects = append(objects, &models.Object{
			Class: vector.ClassName,
			ID:    objectID(namespace, item.ID),
			Properties: map[string]interface{}{
				"content":   item.Text,
				"sourceId":  item.SourceID,
				"vectorId":  item.ID,
				"namespace": namespace,
			},
			Vector: item.Vector,
		})
	}

	res, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, obj := range res {
		if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
			continue
		}
		stored++
	}
	return stored, nil
}

// Query returns the topK nearest neighbors of the vector within the
// namespace, best similarity first. A namespace with no objects yields an
// empty slice, not an error.
func (s *Store) Query(ctx context.Context, vec []float32, topK int, namespace string) ([]vector.Match, error) {
	if len(vec) != s.dimension {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, index expects %d",
			ErrDimensionMismatch, len(vec), s.dimension)
	}
	if topK <= 0 {
		return nil, nil
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vec)

	fields := []graphql.Field{
		{Name: "content"},
		{Name: "sourceId"},
		{Name: "vectorId"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}

	res, err := s.client.GraphQL().Get().
		WithClassName(vector.ClassName).
		WithNearVector(nearVector).
		WithWhere(namespaceFilter(namespace)).
		WithLimit(topK).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %v", res.Errors)
	}

	return parseMatches(res.Data), nil
}

// Count reports how many vectors the namespace holds.
func (s *Store) Count(ctx context.Context, namespace string) (int, error) {
	res, err := s.client.GraphQL().Aggregate().
		WithClassName(vector.ClassName).
		WithWhere(namespaceFilter(namespace)).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, err
	}
	if len(res.Errors) > 0 {
		return 0, fmt.Errorf("graphql error: %v", res.Errors)
	}

	agg, ok := res.Data["Aggregate"].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	rows, ok := agg[vector.ClassName].([]interface{})
	if !ok || len(rows) == 0 {
		return 0, nil
	}
	row, ok := rows[0].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	meta, ok := row["meta"].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	count, ok := meta["count"].(float64)
	if !ok {
		return 0, nil
	}
	return int(count), nil
}

func namespaceFilter(namespace string) *filters.WhereBuilder {
	return filters.Where().
		WithPath([]string{"namespace"}).
		WithOperator(filters.Equal).
		WithValueString(namespace)
}

// objectID derives a deterministic UUID from namespace and item id so
// repeated writes of the same logical id overwrite instead of duplicating.
func objectID(namespace, id string) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(namespace+"/"+id)).String())
}

func parseMatches(data map[string]models.JSONObject) []vector.Match {
	var matches []vector.Match

	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return matches
	}
	rows, ok := get[vector.ClassName].([]interface{})
	if !ok {
		return matches
	}

	for _, row := range rows {
		props, ok := row.(map[string]interface{})
		if !ok {
			continue
		}

		var m vector.Match
		if content, ok := props["content"].(string); ok {
			m.Text = content
		}
		if sourceID, ok := props["sourceId"].(string); ok {
			m.SourceID = sourceID
		}
		if id, ok := props["vectorId"].(string); ok {
			m.ID = id
		}
		if additional, ok := props["_additional"].(map[string]interface{}); ok {
			if certainty, ok := additional["certainty"].(float64); ok {
				// certainty = (1 + cosine) / 2
				m.Similarity = float32(2*certainty - 1)
			}
		}
		matches = append(matches, m)
	}
	return matches
}
