package dao

import (
	"context"
	"errors"
	"fmt"
	"github.com/gmkornilov/bughouse-trainer/internal/db"
	"github.com/gmkornilov/bughouse-trainer/pkg/puzgen"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"sort"
	"time"
)

var (
	ErrSetNotFound = errors.New("puzzle set not found")
	ErrEmptySet    = errors.New("puzzle set is empty")
)

// PuzzleRepository stores named, ordered puzzle collections.
type PuzzleRepository interface {
	// SavePuzzleSet replaces the set called name with puzzles.
	SavePuzzleSet(name string, puzzles []puzgen.Puzzle) error

	LoadPuzzleSet(name string) ([]puzgen.Puzzle, error)

	ListPuzzleSets() ([]string, error)
}

// setWriter is the part of the collection a save goes through.
type setWriter interface {
	insertRevision(ctx context.Context, docs []PuzzleDocument) error
	deleteRevision(ctx context.Context, set string, revision primitive.ObjectID) error
	deleteOlderRevisions(ctx context.Context, set string, keep primitive.ObjectID) error
}

type puzzleRepository struct {
	dbClient *db.PuzzleDbClient
}

func NewPuzzleRepository(dbClient *db.PuzzleDbClient) PuzzleRepository {
	return &puzzleRepository{dbClient}
}

func (t *puzzleRepository) SavePuzzleSet(name string, puzzles []puzgen.Puzzle) error {
	if len(puzzles) == 0 {
		return ErrEmptySet
	}
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	return replaceSet(ctx, collectionWriter{t.dbClient.PuzzleCollection}, name, puzzles)
}

// replaceSet writes puzzles as a new revision and only then drops the previous ones, so a
// failed save leaves the stored set as it was.
func replaceSet(ctx context.Context, w setWriter, name string, puzzles []puzgen.Puzzle) error {
	revision := primitive.NewObjectID()
	docs := make([]PuzzleDocument, 0, len(puzzles))
	for i, p := range puzzles {
		doc := NewPuzzleDocument(name, i, p)
		doc.Revision = revision
		docs = append(docs, doc)
	}

	if err := w.insertRevision(ctx, docs); err != nil {
		if cleanupErr := w.deleteRevision(ctx, name, revision); cleanupErr != nil {
			return fmt.Errorf("%w (cleanup: %v)", err, cleanupErr)
		}
		return err
	}
	return w.deleteOlderRevisions(ctx, name, revision)
}

func (t *puzzleRepository) LoadPuzzleSet(name string) ([]puzgen.Puzzle, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	latest := options.FindOne()
	latest.SetSort(bson.D{{"revision", -1}})

	var head PuzzleDocument
	err := t.dbClient.PuzzleCollection.FindOne(ctx, bson.D{{"set", name}}, latest).Decode(&head)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSetNotFound
	}
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	opts.SetSort(bson.D{{"index", 1}})

	cur, err := t.dbClient.PuzzleCollection.Find(ctx, bson.D{{"set", name}, {"revision", head.Revision}}, opts)
	if err != nil {
		return nil, err
	}

	var docs []PuzzleDocument
	if err = cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrSetNotFound
	}
	return puzzlesFromDocuments(docs)
}

func (t *puzzleRepository) ListPuzzleSets() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	values, err := t.dbClient.PuzzleCollection.Distinct(ctx, "set", bson.D{})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(values))
	for _, v := range values {
		name, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected set name %v", v)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

type collectionWriter struct {
	coll *mongo.Collection
}

func (c collectionWriter) insertRevision(ctx context.Context, docs []PuzzleDocument) error {
	values := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		values = append(values, d)
	}
	_, err := c.coll.InsertMany(ctx, values)
	return err
}

func (c collectionWriter) deleteRevision(ctx context.Context, set string, revision primitive.ObjectID) error {
	_, err := c.coll.DeleteMany(ctx, bson.D{{"set", set}, {"revision", revision}})
	return err
}

func (c collectionWriter) deleteOlderRevisions(ctx context.Context, set string, keep primitive.ObjectID) error {
	_, err := c.coll.DeleteMany(ctx, bson.D{{"set", set}, {"revision", bson.D{{"$ne", keep}}}})
	return err
}
