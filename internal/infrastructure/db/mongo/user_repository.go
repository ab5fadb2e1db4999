package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/connectly/social-api/internal/core/domain"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID            primitive.ObjectID          `bson:"_id,omitempty"`
	Email         string                      `bson:"email"`
	PasswordHash  string                      `bson:"password_hash,omitempty"`
	Role          string                      `bson:"role"`
	Provider      string                      `bson:"provider"`
	ProviderID    string                      `bson:"provider_id,omitempty"`
	EmailVerified bool                        `bson:"email_verified"`
	IsActive      bool                        `bson:"is_active"`
	ProfileID     primitive.ObjectID          `bson:"profile,omitempty"`
	BlockedUsers  []string                    `bson:"blocked_users,omitempty"`
	BlockedBy     []string                    `bson:"blocked_by,omitempty"`
	Notifications domain.NotificationSettings `bson:"notifications"`
	CreatedAt     time.Time                   `bson:"created_at"`
	UpdatedAt     time.Time                   `bson:"updated_at"`
}

func (d *userDoc) toDomain() *domain.User {
	u := &domain.User{
		ID:            d.ID.Hex(),
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Role:          d.Role,
		Provider:      d.Provider,
		ProviderID:    d.ProviderID,
		EmailVerified: d.EmailVerified,
		IsActive:      d.IsActive,
		BlockedUsers:  d.BlockedUsers,
		BlockedBy:     d.BlockedBy,
		Notifications: d.Notifications,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
	if !d.ProfileID.IsZero() {
		u.ProfileID = d.ProfileID.Hex()
	}
	return u
}

// Create inserts a new user. A duplicate-key error on the unique email index
// is reported as domain.ErrEmailInUse so racing signups observe the same
// conflict as the advisory pre-check.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := userDoc{
		Email:         user.Email,
		PasswordHash:  user.PasswordHash,
		Role:          user.Role,
		Provider:      user.Provider,
		ProviderID:    user.ProviderID,
		EmailVerified: user.EmailVerified,
		IsActive:      user.IsActive,
		Notifications: user.Notifications,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailInUse
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return doc.toDomain(), nil
}

// SetProfileID establishes the back-reference to the linked profile.
func (r *UserRepository) SetProfileID(ctx context.Context, userID, profileID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	pid, err := primitive.ObjectIDFromHex(profileID)
	if err != nil {
		return domain.ErrProfileNotFound
	}

	res, err := r.col.UpdateByID(ctx, uid, bson.M{"$set": bson.M{
		"profile":    pid,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set profile id: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Block records the edge on both documents with atomic set-adds.
func (r *UserRepository) Block(ctx context.Context, userID, targetID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	tid, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	if _, err := r.col.UpdateByID(ctx, uid, bson.M{"$addToSet": bson.M{"blocked_users": targetID}}); err != nil {
		return fmt.Errorf("block user: %w", err)
	}
	if _, err := r.col.UpdateByID(ctx, tid, bson.M{"$addToSet": bson.M{"blocked_by": userID}}); err != nil {
		return fmt.Errorf("block user (reverse edge): %w", err)
	}
	return nil
}

func (r *UserRepository) Unblock(ctx context.Context, userID, targetID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	tid, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	if _, err := r.col.UpdateByID(ctx, uid, bson.M{"$pull": bson.M{"blocked_users": targetID}}); err != nil {
		return fmt.Errorf("unblock user: %w", err)
	}
	if _, err := r.col.UpdateByID(ctx, tid, bson.M{"$pull": bson.M{"blocked_by": userID}}); err != nil {
		return fmt.Errorf("unblock user (reverse edge): %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateNotificationSettings(ctx context.Context, userID string, settings domain.NotificationSettings) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.col.UpdateByID(ctx, uid, bson.M{"$set": bson.M{
		"notifications": settings,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update notification settings: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index that backs signup conflict
// detection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	return nil
}
