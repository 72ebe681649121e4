package retrieval_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docent/internal/retrieval"
	"docent/internal/vector"
)

type MockEmbedder struct{ mock.Mock }

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockStore struct{ mock.Mock }

func (m *MockStore) Query(ctx context.Context, vec []float32, topK int, namespace string) ([]vector.Match, error) {
	args := m.Called(ctx, vec, topK, namespace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vector.Match), args.Error(1)
}

func TestService_Retrieve(t *testing.T) {
	t.Run("Maps Matches To Ranked Segments", func(t *testing.T) {
		e := new(MockEmbedder)
		s := new(MockStore)

		e.On("Embed", mock.Anything, "capital of France").Return([]float32{0.1, 0.2}, nil)
		s.On("Query", mock.Anything, []float32{0.1, 0.2}, 5, "ns-test").Return([]vector.Match{
			{ID: "b/doc_0", Text: "Paris is the capital.", SourceID: "france.txt", Similarity: 0.9},
			{ID: "b/doc_1", Text: "The Eiffel Tower stands there.", SourceID: "france.txt", Similarity: 0.7},
		}, nil)

		svc := retrieval.NewService(e, s, "ns-test", nil)
		segments, err := svc.Retrieve(context.Background(), "capital of France", 5)
		assert.NoError(t, err)
		assert.Len(t, segments, 2)
		assert.Equal(t, 0, segments[0].Rank)
		assert.Equal(t, "Paris is the capital.", segments[0].Text)
		assert.Equal(t, 1, segments[1].Rank)
		assert.Equal(t, "france.txt", segments[1].SourceID)

		e.AssertExpectations(t)
		s.AssertExpectations(t)
	})

	t.Run("Empty Index Yields Empty Segments", func(t *testing.T) {
		e := new(MockEmbedder)
		s := new(MockStore)

		e.On("Embed", mock.Anything, "anything").Return([]float32{0.5}, nil)
		s.On("Query", mock.Anything, []float32{0.5}, 3, "ns-test").Return([]vector.Match{}, nil)

		svc := retrieval.NewService(e, s, "ns-test", nil)
		segments, err := svc.Retrieve(context.Background(), "anything", 3)
		assert.NoError(t, err)
		assert.Empty(t, segments)
	})

	t.Run("Embed Failure Propagates", func(t *testing.T) {
		e := new(MockEmbedder)
		s := new(MockStore)

		e.On("Embed", mock.Anything, "q").Return(nil, errors.New("quota exceeded"))

		svc := retrieval.NewService(e, s, "ns-test", nil)
		_, err := svc.Retrieve(context.Background(), "q", 3)
		assert.Error(t, err)
		s.AssertNotCalled(t, "Query")
	})

	t.Run("Store Failure Propagates", func(t *testing.T) {
		e := new(MockEmbedder)
		s := new(MockStore)

		e.On("Embed", mock.Anything, "q").Return([]float32{0.5}, nil)
		s.On("Query", mock.Anything, []float32{0.5}, 3, "ns-test").Return(nil, errors.New("store down"))

		svc := retrieval.NewService(e, s, "ns-test", nil)
		_, err := svc.Retrieve(context.Background(), "q", 3)
		assert.Error(t, err)
	})
}
