package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/user-directory/internal/domain"
)

const archivedAtKey = "archivedAt"

// userDocument is the BSON shape of a user. ArchivedAt has no omitempty so
// active users persist an explicit null.
type userDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	ArchivedAt *time.Time         `bson:"archivedAt"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

type mongoUserRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

var _ UserRepository = (*mongoUserRepository)(nil)

// NewMongoUserRepository returns a MongoDB-backed implementation storing one
// document per user in the given collection.
func NewMongoUserRepository(collection *mongo.Collection) UserRepository {
	return &mongoUserRepository{
		collection: collection,
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// EnsureUserIndexes creates the index backing the non-archived, name-ordered listing.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: archivedAtKey, Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetName("archivedAt_name"),
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) Find(ctx context.Context, q UserQuery) ([]domain.User, error) {
	field, err := mongoSortField(q.SortBy)
	if err != nil {
		return nil, err
	}
	direction := 1
	if q.Descending {
		direction = -1
	}

	opts := options.Find().SetSort(bson.D{{Key: field, Value: direction}, {Key: "_id", Value: 1}})
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cur, err := r.collection.Find(ctx, mongoFilter(q.Filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	result := make([]domain.User, 0, len(docs))
	for i := range docs {
		result = append(result, docs[i].toDomain())
	}
	return result, nil
}

func (r *mongoUserRepository) Count(ctx context.Context, filter UserFilter) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, mongoFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc userDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	user := doc.toDomain()
	return &user, nil
}

func (r *mongoUserRepository) Save(ctx context.Context, user *domain.User) error {
	now := r.now()

	if user.ID == "" {
		doc := fromDomain(user)
		doc.ID = primitive.NewObjectID()
		doc.CreatedAt = now
		doc.UpdatedAt = now

		if _, err := r.collection.InsertOne(ctx, doc); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		user.ID = doc.ID.Hex()
		user.CreatedAt = now
		user.UpdatedAt = now
		return nil
	}

	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return ErrNotFound
	}

	doc := fromDomain(user)
	doc.ID = oid
	doc.UpdatedAt = now

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	user.UpdatedAt = now
	return nil
}

// mongoFilter matches both explicit null and a missing archivedAt field.
func mongoFilter(filter UserFilter) bson.M {
	if filter.IncludeArchived {
		return bson.M{}
	}
	return bson.M{archivedAtKey: nil}
}

func mongoSortField(field SortField) (string, error) {
	switch field {
	case "", SortByName:
		return "name", nil
	case SortByEmail:
		return "email", nil
	case SortByCreatedAt:
		return "createdAt", nil
	default:
		return "", fmt.Errorf("unsupported sort field %q", field)
	}
}

func fromDomain(user *domain.User) userDocument {
	return userDocument{
		Name:       user.Name,
		Email:      user.Email,
		ArchivedAt: user.ArchivedAt,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

func (d userDocument) toDomain() domain.User {
	return domain.User{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Email:      d.Email,
		ArchivedAt: d.ArchivedAt,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
