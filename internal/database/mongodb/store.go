package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stefantagarski/event-service/internal/fixtures"
	"github.com/stefantagarski/event-service/internal/logger"
	"github.com/stefantagarski/event-service/internal/models"
)

// codeNamespaceExists is returned by create when the collection is already there.
const codeNamespaceExists = 48

// Store performs the seeding operations against a single database.
type Store struct {
	db  *mongo.Database
	log *logger.Logger
}

func NewStore(client *mongo.Client, database string, log *logger.Logger) *Store {
	return &Store{
		db:  client.Database(database),
		log: log,
	}
}

func (s *Store) Database() string {
	return s.db.Name()
}

// EnsureCollection creates the collection. An existing collection is not an error.
func (s *Store) EnsureCollection(ctx context.Context, name string) error {
	err := s.db.CreateCollection(ctx, name)
	if err == nil {
		s.log.LogDatabase("CREATE", name, "collection created")
		return nil
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.HasErrorCode(codeNamespaceExists) {
		s.log.LogDatabase("CREATE", name, "collection already exists")
		return nil
	}
	return fmt.Errorf("failed to create collection %s: %w", name, err)
}

func (s *Store) DropCollection(ctx context.Context, name string) error {
	if err := s.db.Collection(name).Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop collection %s: %w", name, err)
	}
	s.log.LogDatabase("DROP", name, "collection dropped")
	return nil
}

// CreateIndexes creates every index in one createIndexes command. Re-creating
// an identical index is a no-op on the server.
func (s *Store) CreateIndexes(ctx context.Context, collection string, specs []fixtures.IndexSpec) ([]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	indexModels := make([]mongo.IndexModel, 0, len(specs))
	for _, spec := range specs {
		indexModels = append(indexModels, IndexModel(spec))
	}

	names, err := s.db.Collection(collection).Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes on %s: %w", collection, err)
	}
	s.log.LogDatabase("INDEX", collection, fmt.Sprintf("indexes ready: %s", strings.Join(names, ", ")))
	return names, nil
}

// IndexModel translates a fixture index into the driver's key document:
// text fields map to "text", ascending to 1 and descending to -1.
func IndexModel(spec fixtures.IndexSpec) mongo.IndexModel {
	keys := bson.D{}
	for _, key := range spec.Keys {
		var value interface{}
		switch key.Order {
		case fixtures.OrderText:
			value = "text"
		case fixtures.OrderDesc:
			value = -1
		default:
			value = 1
		}
		keys = append(keys, bson.E{Key: key.Field, Value: value})
	}

	model := mongo.IndexModel{Keys: keys}
	if spec.Name != "" {
		model.Options = options.Index().SetName(spec.Name)
	}
	return model
}

// InsertEvents inserts all events in one insertMany and returns them with
// their assigned IDs.
func (s *Store) InsertEvents(ctx context.Context, collection string, events []models.Event) ([]models.Event, error) {
	docs := make([]interface{}, 0, len(events))
	for _, e := range events {
		docs = append(docs, e)
	}

	result, err := s.db.Collection(collection).InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to insert events into %s: %w", collection, err)
	}

	inserted := make([]models.Event, len(events))
	copy(inserted, events)
	for i, id := range result.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok && i < len(inserted) {
			inserted[i].ID = oid
		}
	}
	s.log.LogDatabase("INSERT", collection, fmt.Sprintf("%d events inserted", len(result.InsertedIDs)))
	return inserted, nil
}

func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return false, fmt.Errorf("failed to list collections: %w", err)
	}
	return len(names) > 0, nil
}

// ListIndexNames returns the names of all indexes on the collection except
// the implicit _id index.
func (s *Store) ListIndexNames(ctx context.Context, collection string) ([]string, error) {
	specs, err := s.db.Collection(collection).Indexes().ListSpecifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes on %s: %w", collection, err)
	}

	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		if spec.Name == "_id_" {
			continue
		}
		names = append(names, spec.Name)
	}
	return names, nil
}

func (s *Store) FindByTitle(ctx context.Context, collection, title string) ([]models.Event, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{{Key: "title", Value: title}})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}
