package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClassifier struct {
	calls  int
	result ClassificationResult
	err    error
}

func (s *stubClassifier) Classify(ctx context.Context, subject Subject, dirty bool) (*ClassificationResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	result := s.result
	return &result, nil
}

type stubCache struct {
	entries map[string]*ClassificationResult
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*ClassificationResult)}
}

func (s *stubCache) Get(key string) (*ClassificationResult, bool) {
	result, ok := s.entries[key]
	return result, ok
}

func (s *stubCache) Set(key string, result *ClassificationResult, ttl time.Duration) {
	s.sets++
	s.entries[key] = result
}

func compostable() ClassificationResult {
	return ClassificationResult{
		Category:     CategoryCompostable,
		ItemDetected: "pizza box",
		Reason:       "greasy cardboard",
		EcoFact:      "Grease ruins cardboard recycling.",
		CO2SavedKg:   0.05,
	}
}

func TestClassifyRejectsEmptySubject(t *testing.T) {
	oracle := &stubClassifier{result: compostable()}
	svc := NewClassificationService(oracle, newStubCache(), zap.NewNop(), false, 0)

	_, err := svc.Classify(context.Background(), TextSubject("   "), true)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, oracle.calls, "no oracle call may happen for invalid input")
}

func TestClassifyRejectsDoublyPopulatedSubject(t *testing.T) {
	oracle := &stubClassifier{result: compostable()}
	svc := NewClassificationService(oracle, newStubCache(), zap.NewNop(), false, 0)

	subject := Subject{Text: "pizza box", ImageData: []byte{1}, MimeType: "image/jpeg"}
	_, err := svc.Classify(context.Background(), subject, false)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, oracle.calls)
}

func TestClassifyBackfillsItemDetected(t *testing.T) {
	result := compostable()
	result.ItemDetected = ""
	oracle := &stubClassifier{result: result}
	svc := NewClassificationService(oracle, newStubCache(), zap.NewNop(), false, 0)

	got, err := svc.Classify(context.Background(), TextSubject("pizza box"), true)
	require.NoError(t, err)
	assert.Equal(t, "pizza box", got.ItemDetected)
}

func TestClassifyDoesNotBackfillImages(t *testing.T) {
	result := compostable()
	result.ItemDetected = ""
	oracle := &stubClassifier{result: result}
	svc := NewClassificationService(oracle, newStubCache(), zap.NewNop(), false, 0)

	got, err := svc.Classify(context.Background(), ImageSubject([]byte{1, 2}, "image/jpeg"), true)
	require.NoError(t, err)
	assert.Empty(t, got.ItemDetected)
}

func TestClassifyUsesCacheForRepeatTextSubjects(t *testing.T) {
	oracle := &stubClassifier{result: compostable()}
	cache := newStubCache()
	svc := NewClassificationService(oracle, cache, zap.NewNop(), true, time.Hour)

	_, err := svc.Classify(context.Background(), TextSubject("Pizza Box"), true)
	require.NoError(t, err)
	_, err = svc.Classify(context.Background(), TextSubject("pizza box  "), true)
	require.NoError(t, err)

	assert.Equal(t, 1, oracle.calls, "second call should be served from cache")
	assert.Equal(t, 1, cache.sets)
}

func TestClassifyCacheKeySeparatesDirtyState(t *testing.T) {
	oracle := &stubClassifier{result: compostable()}
	svc := NewClassificationService(oracle, newStubCache(), zap.NewNop(), true, time.Hour)

	_, err := svc.Classify(context.Background(), TextSubject("pizza box"), true)
	require.NoError(t, err)
	_, err = svc.Classify(context.Background(), TextSubject("pizza box"), false)
	require.NoError(t, err)

	assert.Equal(t, 2, oracle.calls, "dirty and clean states must not share a cache entry")
}

func TestClassifyNeverCachesImages(t *testing.T) {
	oracle := &stubClassifier{result: compostable()}
	cache := newStubCache()
	svc := NewClassificationService(oracle, cache, zap.NewNop(), true, time.Hour)

	_, err := svc.Classify(context.Background(), ImageSubject([]byte{1, 2}, "image/jpeg"), false)
	require.NoError(t, err)

	assert.Zero(t, cache.sets)
}

func TestClassifyPropagatesOracleErrors(t *testing.T) {
	oracle := &stubClassifier{err: ErrOracleContract}
	svc := NewClassificationService(oracle, newStubCache(), zap.NewNop(), false, 0)

	_, err := svc.Classify(context.Background(), TextSubject("mystery"), false)
	require.ErrorIs(t, err, ErrOracleContract)
}
