package dao

import (
	"context"
	"errors"
	"github.com/gmkornilov/bughouse-trainer/pkg/puzgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"testing"
)

// memoryWriter keeps documents in a slice and can fail inserts.
type memoryWriter struct {
	docs      []PuzzleDocument
	failAfter int
	calls     []string
}

func (m *memoryWriter) insertRevision(_ context.Context, docs []PuzzleDocument) error {
	m.calls = append(m.calls, "insert")
	for i, d := range docs {
		if m.failAfter >= 0 && i == m.failAfter {
			return errors.New("write failed")
		}
		m.docs = append(m.docs, d)
	}
	return nil
}

func (m *memoryWriter) deleteRevision(_ context.Context, set string, revision primitive.ObjectID) error {
	m.calls = append(m.calls, "delete revision")
	m.keep(func(d PuzzleDocument) bool { return d.Set != set || d.Revision != revision })
	return nil
}

func (m *memoryWriter) deleteOlderRevisions(_ context.Context, set string, keep primitive.ObjectID) error {
	m.calls = append(m.calls, "delete older")
	m.keep(func(d PuzzleDocument) bool { return d.Set != set || d.Revision == keep })
	return nil
}

func (m *memoryWriter) keep(pred func(PuzzleDocument) bool) {
	kept := m.docs[:0]
	for _, d := range m.docs {
		if pred(d) {
			kept = append(kept, d)
		}
	}
	m.docs = kept
}

func TestReplaceSet(t *testing.T) {
	w := &memoryWriter{failAfter: -1}
	p := dropPuzzle(t)

	require.NoError(t, replaceSet(context.Background(), w, "drops", []puzgen.Puzzle{p, p}))
	require.Len(t, w.docs, 2)
	first := w.docs[0].Revision
	assert.Equal(t, first, w.docs[1].Revision)
	assert.Equal(t, 1, w.docs[1].Index)

	require.NoError(t, replaceSet(context.Background(), w, "drops", []puzgen.Puzzle{p}))
	require.Len(t, w.docs, 1)
	assert.NotEqual(t, first, w.docs[0].Revision)
	assert.Equal(t, []string{"insert", "delete older", "insert", "delete older"}, w.calls)
}

func TestReplaceSetKeepsOldSetOnFailedInsert(t *testing.T) {
	w := &memoryWriter{failAfter: -1}
	p := dropPuzzle(t)
	require.NoError(t, replaceSet(context.Background(), w, "drops", []puzgen.Puzzle{p, p}))
	old := append([]PuzzleDocument(nil), w.docs...)

	w.failAfter = 1
	w.calls = nil
	err := replaceSet(context.Background(), w, "drops", []puzgen.Puzzle{p, p, p})
	require.Error(t, err)
	assert.Equal(t, old, w.docs)
	assert.Equal(t, []string{"insert", "delete revision"}, w.calls)
}
