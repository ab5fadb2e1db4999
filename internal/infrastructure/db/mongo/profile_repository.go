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
	"github.com/connectly/social-api/internal/core/ports"
)

const collectionProfiles = "profiles"

type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionProfiles)}
}

type profileDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Username    string             `bson:"username"`
	DisplayName string             `bson:"display_name"`
	Bio         string             `bson:"bio,omitempty"`
	Location    string             `bson:"location,omitempty"`
	AvatarURL   string             `bson:"avatar_url,omitempty"`
	BannerURL   string             `bson:"banner_url,omitempty"`
	Interests   []string           `bson:"interests,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id"`
	Following   []string           `bson:"following,omitempty"`
	Followers   []string           `bson:"followers,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *profileDoc) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:          d.ID.Hex(),
		Username:    d.Username,
		DisplayName: d.DisplayName,
		Bio:         d.Bio,
		Location:    d.Location,
		AvatarURL:   d.AvatarURL,
		BannerURL:   d.BannerURL,
		Interests:   d.Interests,
		UserID:      d.UserID.Hex(),
		Following:   d.Following,
		Followers:   d.Followers,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// Create inserts a new profile. A duplicate-key error on the unique username
// index is reported as domain.ErrUsernameTaken.
func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	uid, err := primitive.ObjectIDFromHex(profile.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := profileDoc{
		Username:    profile.Username,
		DisplayName: profile.DisplayName,
		Bio:         profile.Bio,
		Location:    profile.Location,
		AvatarURL:   profile.AvatarURL,
		BannerURL:   profile.BannerURL,
		Interests:   profile.Interests,
		UserID:      uid,
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	created := *profile
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return r.findOne(ctx, bson.M{"user_id": uid})
}

func (r *ProfileRepository) FindByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *ProfileRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count username: %w", err)
	}
	return n > 0, nil
}

func (r *ProfileRepository) Update(ctx context.Context, id string, update ports.ProfileUpdate) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.DisplayName != nil {
		set["display_name"] = *update.DisplayName
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.AvatarURL != nil {
		set["avatar_url"] = *update.AvatarURL
	}
	if update.BannerURL != nil {
		set["banner_url"] = *update.BannerURL
	}
	if update.Interests != nil {
		set["interests"] = update.Interests
	}

	var doc profileDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return doc.toDomain(), nil
}

// Follow records the edge on both documents. $addToSet keeps replays
// idempotent.
func (r *ProfileRepository) Follow(ctx context.Context, followerID, followeeID string) (*domain.Profile, error) {
	return r.updateEdges(ctx, followerID, followeeID, "$addToSet")
}

func (r *ProfileRepository) Unfollow(ctx context.Context, followerID, followeeID string) (*domain.Profile, error) {
	return r.updateEdges(ctx, followerID, followeeID, "$pull")
}

func (r *ProfileRepository) updateEdges(ctx context.Context, followerID, followeeID, op string) (*domain.Profile, error) {
	fid, err := primitive.ObjectIDFromHex(followerID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	tid, err := primitive.ObjectIDFromHex(followeeID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	res, err := r.col.UpdateByID(ctx, tid, bson.M{op: bson.M{"followers": followerID}})
	if err != nil {
		return nil, fmt.Errorf("update followers: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrProfileNotFound
	}

	var doc profileDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": fid}, bson.M{op: bson.M{"following": followeeID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("update following: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProfileRepository) findOne(ctx context.Context, filter bson.M) (*domain.Profile, error) {
	var doc profileDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique username index backing the
// username-conflict guarantee.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("ensure profile indexes: %w", err)
	}
	return nil
}
