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

var ErrActivityAlreadyCompleted = errors.New("activity already completed")

type ActivityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		collection: db.Collection("activities"),
	}
}

func (ar *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	activity.ID = primitive.NewObjectID()
	activity.CreatedAt = time.Now()
	activity.UpdatedAt = time.Now()
	activity.IsActive = true

	if activity.SocialData.SharedWith == nil {
		activity.SocialData.SharedWith = []primitive.ObjectID{}
	}
	if activity.SocialData.Likes == nil {
		activity.SocialData.Likes = []primitive.ObjectID{}
	}
	if activity.SocialData.Comments == nil {
		activity.SocialData.Comments = []models.ActivityComment{}
	}

	_, err := ar.collection.InsertOne(ctx, activity)
	return err
}

func (ar *ActivityRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid activity ID")
	}

	var activity models.Activity
	err = ar.collection.FindOne(ctx, bson.M{"_id": objectID, "isActive": true}).Decode(&activity)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("activity not found")
		}
		return nil, err
	}

	return &activity, nil
}

func (ar *ActivityRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID, req models.ListActivitiesRequest) ([]models.Activity, int64, error) {
	filter := bson.M{
		"ownerId":  ownerID,
		"isActive": true,
	}
	if req.Type != "" {
		filter["type"] = req.Type
	}
	if req.Category != "" {
		filter["category"] = req.Category
	}
	if req.Completed != nil {
		filter["completionData.isCompleted"] = *req.Completed
	}

	total, err := ar.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := ar.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	err = cursor.All(ctx, &activities)
	return activities, total, err
}

func (ar *ActivityRepository) Update(ctx context.Context, id string, update bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid activity ID")
	}

	update["updatedAt"] = time.Now()

	result, err := ar.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "isActive": true},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("activity not found")
	}

	return nil
}

func (ar *ActivityRepository) SoftDelete(ctx context.Context, id string) error {
	return ar.Update(ctx, id, bson.M{"isActive": false})
}

// MarkCompleted records completion data. The filter requires the activity
// to be uncompleted, so a second attempt matches nothing and returns the
// conflict error without touching the stored completion data.
func (ar *ActivityRepository) MarkCompleted(ctx context.Context, id string, completion models.CompletionData) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid activity ID")
	}

	result, err := ar.collection.UpdateOne(
		ctx,
		bson.M{
			"_id":                        objectID,
			"isActive":                   true,
			"completionData.isCompleted": false,
		},
		bson.M{"$set": bson.M{
			"completionData": completion,
			"updatedAt":      time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Distinguish missing from already completed
		count, countErr := ar.collection.CountDocuments(ctx, bson.M{"_id": objectID, "isActive": true})
		if countErr == nil && count > 0 {
			return ErrActivityAlreadyCompleted
		}
		return errors.New("activity not found")
	}

	return nil
}

// ============================================================================
// LIKES AND COMMENTS
// ============================================================================

// AddLike inserts userID into the likes set. Returns false when the user
// had already liked the activity. The filter excludes already-liked
// documents so the unconditional updatedAt touch cannot make the
// repeat case look like a change.
func (ar *ActivityRepository) AddLike(ctx context.Context, id string, userID primitive.ObjectID) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, errors.New("invalid activity ID")
	}

	result, err := ar.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "isActive": true, "socialData.likes": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"socialData.likes": userID},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return false, err
	}

	// MatchedCount 0 covers both a missing activity and a repeat like;
	// callers resolve existence before or after this write.
	return result.MatchedCount > 0, nil
}

// RemoveLike pulls userID from the likes set. Returns false when there
// was no like to remove; removing an absent like is not an error.
func (ar *ActivityRepository) RemoveLike(ctx context.Context, id string, userID primitive.ObjectID) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, errors.New("invalid activity ID")
	}

	result, err := ar.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "isActive": true, "socialData.likes": userID},
		bson.M{
			"$pull": bson.M{"socialData.likes": userID},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}

func (ar *ActivityRepository) AddComment(ctx context.Context, id string, comment models.ActivityComment) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid activity ID")
	}

	result, err := ar.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "isActive": true},
		bson.M{
			"$push": bson.M{"socialData.comments": comment},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("activity not found")
	}

	return nil
}

// Share marks the activity shared. With specific user IDs they are added
// to the sharedWith set; with none the activity is shared with everyone.
func (ar *ActivityRepository) Share(ctx context.Context, id string, userIDs []primitive.ObjectID) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid activity ID")
	}

	update := bson.M{
		"$set": bson.M{
			"socialData.isShared": true,
			"updatedAt":           time.Now(),
		},
	}
	if len(userIDs) > 0 {
		update["$addToSet"] = bson.M{
			"socialData.sharedWith": bson.M{"$each": userIDs},
		}
	}

	result, err := ar.collection.UpdateOne(ctx, bson.M{"_id": objectID, "isActive": true}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("activity not found")
	}

	return nil
}

// ============================================================================
// FEEDS AND AGGREGATION
// ============================================================================

// GetFriendFeed returns shared activities owned by the given friends,
// newest first.
func (ar *ActivityRepository) GetFriendFeed(ctx context.Context, friendIDs []primitive.ObjectID, viewerID primitive.ObjectID, limit int) ([]models.Activity, error) {
	filter := bson.M{
		"ownerId":             bson.M{"$in": friendIDs},
		"isActive":            true,
		"socialData.isShared": true,
		"$or": []bson.M{
			{"socialData.sharedWith": bson.M{"$size": 0}},
			{"socialData.sharedWith": viewerID},
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := ar.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	err = cursor.All(ctx, &activities)
	return activities, err
}

// GetTrending scores shared activities by likes + 2x comments and sorts
// by score descending with recency as the tie-break.
func (ar *ActivityRepository) GetTrending(ctx context.Context, since time.Time, limit int) ([]models.TrendingActivity, error) {
	match := bson.M{
		"isActive":            true,
		"socialData.isShared": true,
	}
	if !since.IsZero() {
		match["createdAt"] = bson.M{"$gte": since}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{
			"score": bson.M{"$add": bson.A{
				bson.M{"$size": "$socialData.likes"},
				bson.M{"$multiply": bson.A{2, bson.M{"$size": "$socialData.comments"}}},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "score", Value: -1},
			{Key: "createdAt", Value: -1},
		}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := ar.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trending []models.TrendingActivity
	err = cursor.All(ctx, &trending)
	return trending, err
}

// GetLikesLeaderboard ranks owners of shared activities by the total
// likes those activities collected, optionally bounded to a time window.
func (ar *ActivityRepository) GetLikesLeaderboard(ctx context.Context, since time.Time, limit int) ([]models.LeaderboardEntry, error) {
	match := bson.M{
		"isActive":            true,
		"socialData.isShared": true,
	}
	if !since.IsZero() {
		match["createdAt"] = bson.M{"$gte": since}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$project", Value: bson.M{
			"ownerId":   1,
			"likeCount": bson.M{"$size": "$socialData.likes"},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$ownerId",
			"value": bson.M{"$sum": "$likeCount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "value", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$project", Value: bson.M{
			"_id":      0,
			"userId":   bson.M{"$toString": "$_id"},
			"username": "$user.username",
			"avatar":   "$user.profile.avatar",
			"value":    1,
		}}},
	}

	cursor, err := ar.collection.Aggregate(ctx, pipeline)
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
		entries[i].Dimension = models.LeaderboardByLikes
	}

	return entries, nil
}

// GetCompletedSince returns completed activities for a user since the
// given time, newest first. Insight generation reads this history.
func (ar *ActivityRepository) GetCompletedSince(ctx context.Context, ownerID primitive.ObjectID, since time.Time, limit int) ([]models.Activity, error) {
	filter := bson.M{
		"ownerId":                    ownerID,
		"isActive":                   true,
		"completionData.isCompleted": true,
	}
	if !since.IsZero() {
		filter["completionData.completedAt"] = bson.M{"$gte": since}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "completionData.completedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := ar.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	err = cursor.All(ctx, &activities)
	return activities, err
}
