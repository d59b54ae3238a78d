package repositories

import (
	"context"
	"errors"
	"time"

	"wellnest/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

func (ur *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	user.IsActive = true

	_, err := ur.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return errors.New("user already exists")
	}
	return err
}

func (ur *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	var user models.User
	err = ur.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("user not found")
		}
		return nil, err
	}

	return &user, nil
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := ur.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("user not found")
		}
		return nil, err
	}

	return &user, nil
}

func (ur *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := ur.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("user not found")
		}
		return nil, err
	}

	return &user, nil
}

func (ur *UserRepository) Update(ctx context.Context, id string, update bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid user ID")
	}

	update["updatedAt"] = time.Now()

	result, err := ur.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": update},
	)

	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return errors.New("user not found")
	}

	return nil
}

func (ur *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid user ID")
	}

	_, err = ur.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"lastLoginAt": time.Now(),
			"updatedAt":   time.Now(),
		}},
	)

	return err
}

// UpdateStreakData persists the advanced streak counters and appends any
// newly unlocked achievements in the same write.
func (ur *UserRepository) UpdateStreakData(ctx context.Context, id string, sd models.StreakData, unlocked []models.Achievement) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid user ID")
	}

	update := bson.M{
		"$set": bson.M{
			"streakData": sd,
			"updatedAt":  time.Now(),
		},
	}
	if len(unlocked) > 0 {
		update["$push"] = bson.M{
			"achievements": bson.M{"$each": unlocked},
		}
	}

	result, err := ur.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("user not found")
	}

	return nil
}

func (ur *UserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	cursor, err := ur.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	err = cursor.All(ctx, &users)
	return users, err
}

func (ur *UserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"username": bson.M{"$regex": query, "$options": "i"}},
			{"profile.firstName": bson.M{"$regex": query, "$options": "i"}},
			{"profile.lastName": bson.M{"$regex": query, "$options": "i"}},
		},
		"isActive": true,
	}

	opts := options.Find().SetLimit(int64(limit))
	cursor, err := ur.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	err = cursor.All(ctx, &users)
	return users, err
}

// ============================================================================
// FRIEND ENTRIES
// ============================================================================

// AddFriendEntry pushes a friend entry onto the user's social data.
func (ur *UserRepository) AddFriendEntry(ctx context.Context, userID primitive.ObjectID, entry models.FriendEntry) error {
	result, err := ur.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID, "socialData.friends.userId": bson.M{"$ne": entry.UserID}},
		bson.M{
			"$push": bson.M{"socialData.friends": entry},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrFriendRequestExists
	}
	return nil
}

// SetFriendStatus updates the status of an existing friend entry.
func (ur *UserRepository) SetFriendStatus(ctx context.Context, userID, friendID primitive.ObjectID, status string, since time.Time) error {
	result, err := ur.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID, "socialData.friends.userId": friendID},
		bson.M{"$set": bson.M{
			"socialData.friends.$.status": status,
			"socialData.friends.$.since":  since,
			"updatedAt":                   time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrFriendRequestNotFound
	}
	return nil
}

// RemoveFriendEntry pulls the entry for friendID from the user's list.
func (ur *UserRepository) RemoveFriendEntry(ctx context.Context, userID, friendID primitive.ObjectID) error {
	result, err := ur.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"socialData.friends": bson.M{"userId": friendID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return models.ErrFriendRequestNotFound
	}
	return nil
}

// ============================================================================
// GROUP MEMBERSHIPS
// ============================================================================

func (ur *UserRepository) AddGroupMembership(ctx context.Context, userID primitive.ObjectID, membership models.GroupMembership) error {
	_, err := ur.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID, "socialData.groups.groupId": bson.M{"$ne": membership.GroupID}},
		bson.M{
			"$push": bson.M{"socialData.groups": membership},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	return err
}

func (ur *UserRepository) RemoveGroupMembership(ctx context.Context, userID, groupID primitive.ObjectID) error {
	_, err := ur.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"socialData.groups": bson.M{"groupId": groupID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	return err
}

// ============================================================================
// LEADERBOARDS
// ============================================================================

// GetStreakLeaderboard ranks active users by current streak.
func (ur *UserRepository) GetStreakLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	return ur.leaderboard(ctx, "streakData.currentStreak", models.LeaderboardByStreak, limit)
}

// GetCompletedLeaderboard ranks active users by total completed activities.
func (ur *UserRepository) GetCompletedLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	return ur.leaderboard(ctx, "streakData.totalActivitiesCompleted", models.LeaderboardByCompleted, limit)
}

func (ur *UserRepository) leaderboard(ctx context.Context, field, dimension string, limit int) ([]models.LeaderboardEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"isActive":                       true,
			"socialData.privacy.shareStreak": true,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: field, Value: -1}, {Key: "createdAt", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{
			"_id":      0,
			"userId":   bson.M{"$toString": "$_id"},
			"username": "$username",
			"avatar":   "$profile.avatar",
			"value":    "$" + field,
		}}},
	}

	cursor, err := ur.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.LeaderboardEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Dimension = dimension
	}

	return entries, nil
}
