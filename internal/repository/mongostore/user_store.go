package mongostore

import (
	"context"
	"strings"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserStore persists staff accounts in the "users" collection
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	stampNew(&user.BaseModel)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	_, err := s.coll.InsertOne(ctx, toUserRecord(user))
	return translateError(err)
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"_id": id.String()})
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var records []userRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	users := make([]domain.User, len(records))
	for i, rec := range records {
		users[i] = rec.toDomain()
	}
	return users, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, staffID string) error {
	return s.set(ctx, id, bson.M{"fullName": fullName, "staffId": staffID, "updatedAt": time.Now().UTC()})
}

func (s *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return s.set(ctx, id, bson.M{"passwordHash": passwordHash, "updatedAt": time.Now().UTC()})
}

func (s *UserStore) UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRoleType) error {
	return s.set(ctx, id, bson.M{"role": string(role), "updatedAt": time.Now().UTC()})
}

func (s *UserStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.set(ctx, id, bson.M{"lastLoginAt": at})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var rec userRecord
	if err := s.coll.FindOne(ctx, filter).Decode(&rec); err != nil {
		return nil, translateError(err)
	}
	user := rec.toDomain()
	return &user, nil
}

func (s *UserStore) set(ctx context.Context, id uuid.UUID, fields bson.M) error {
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": fields})
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}
