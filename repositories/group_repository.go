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

type GroupRepository struct {
	collection *mongo.Collection
}

func NewGroupRepository(db *mongo.Database) *GroupRepository {
	return &GroupRepository{
		collection: db.Collection("groups"),
	}
}

func (gr *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	group.ID = primitive.NewObjectID()
	group.CreatedAt = time.Now()
	group.UpdatedAt = time.Now()

	if group.Members == nil {
		group.Members = []models.GroupMember{}
	}
	if group.Challenges == nil {
		group.Challenges = []models.Challenge{}
	}
	if group.Posts == nil {
		group.Posts = []models.GroupPost{}
	}

	_, err := gr.collection.InsertOne(ctx, group)
	return err
}

func (gr *GroupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid group ID")
	}

	var group models.Group
	err = gr.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&group)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("group not found")
		}
		return nil, err
	}

	return &group, nil
}

func (gr *GroupRepository) Update(ctx context.Context, id string, update bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid group ID")
	}

	update["updatedAt"] = time.Now()

	result, err := gr.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("group not found")
	}

	return nil
}

func (gr *GroupRepository) ListPublic(ctx context.Context, limit int) ([]models.Group, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := gr.collection.Find(ctx, bson.M{"privacy": models.GroupPrivacyPublic}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []models.Group
	err = cursor.All(ctx, &groups)
	return groups, err
}

func (gr *GroupRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	filter := bson.M{
		"members": bson.M{"$elemMatch": bson.M{
			"userId":   userID,
			"isActive": true,
		}},
	}

	cursor, err := gr.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []models.Group
	err = cursor.All(ctx, &groups)
	return groups, err
}

// ============================================================================
// MEMBERSHIP
// ============================================================================

func (gr *GroupRepository) PushMember(ctx context.Context, groupID primitive.ObjectID, member models.GroupMember) error {
	result, err := gr.collection.UpdateOne(
		ctx,
		bson.M{"_id": groupID, "members.userId": bson.M{"$ne": member.UserID}},
		bson.M{
			"$push": bson.M{"members": member},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrAlreadyMember
	}
	return nil
}

func (gr *GroupRepository) SetMemberActive(ctx context.Context, groupID, userID primitive.ObjectID, active bool, joinedAt time.Time) error {
	set := bson.M{
		"members.$.isActive": active,
		"updatedAt":          time.Now(),
	}
	if active {
		set["members.$.joinedAt"] = joinedAt
	}

	result, err := gr.collection.UpdateOne(
		ctx,
		bson.M{"_id": groupID, "members.userId": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotMember
	}
	return nil
}

// PushInvitation records a pending invitation, at most one per user.
func (gr *GroupRepository) PushInvitation(ctx context.Context, groupID primitive.ObjectID, invitation models.GroupInvitation) error {
	result, err := gr.collection.UpdateOne(
		ctx,
		bson.M{"_id": groupID, "invitations.userId": bson.M{"$ne": invitation.UserID}},
		bson.M{
			"$push": bson.M{"invitations": invitation},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrAlreadyInvited
	}
	return nil
}

// PullInvitation consumes the pending invitation for userID.
func (gr *GroupRepository) PullInvitation(ctx context.Context, groupID, userID primitive.ObjectID) error {
	result, err := gr.collection.UpdateOne(
		ctx,
		bson.M{"_id": groupID, "invitations.userId": userID},
		bson.M{
			"$pull": bson.M{"invitations": bson.M{"userId": userID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotInvited
	}
	return nil
}

// ============================================================================
// CHALLENGES
// ============================================================================

func (gr *GroupRepository) PushChallenge(ctx context.Context, groupID primitive.ObjectID, challenge models.Challenge) error {
	result, err := gr.collection.UpdateOne(
		ctx,
		bson.M{"_id": groupID},
		bson.M{
			"$push": bson.M{"challenges": challenge},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("group not found")
	}
	return nil
}

func (gr *GroupRepository) PushChallengeParticipant(ctx context.Context, groupID, challengeID primitive.ObjectID, participant models.ChallengeParticipant) error {
	result, err := gr.collection.UpdateOne(
		ctx,
		bson.M{
			"_id":           groupID,
			"challenges.id": challengeID,
			"challenges":    bson.M{"$not": bson.M{"$elemMatch": bson.M{"id": challengeID, "participants.userId": participant.UserID}}},
		},
		bson.M{
			"$push": bson.M{"challenges.$.participants": participant},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrAlreadyParticipating
	}
	return nil
}

// SetParticipantProgress writes the clamped progress state for one
// participant, addressed with array filters on the embedded documents.
func (gr *GroupRepository) SetParticipantProgress(ctx context.Context, groupID, challengeID primitive.ObjectID, p models.ChallengeParticipant) error {
	arrayFilters := options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"c.id": challengeID},
			bson.M{"p.userId": p.UserID},
		},
	}

	set := bson.M{
		"challenges.$[c].participants.$[p].progress":    p.Progress,
		"challenges.$[c].participants.$[p].isCompleted": p.IsCompleted,
		"updatedAt": time.Now(),
	}
	if p.IsCompleted {
		set["challenges.$[c].participants.$[p].completedAt"] = p.CompletedAt
	}

	result, err := gr.collection.UpdateOne(
		ctx,
		bson.M{"_id": groupID},
		bson.M{"$set": set},
		options.Update().SetArrayFilters(arrayFilters),
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("group not found")
	}
	return nil
}

// DeactivateExpiredChallenges flips isActive off for challenges whose end
// date has passed. Returns the number of groups touched.
func (gr *GroupRepository) DeactivateExpiredChallenges(ctx context.Context, now time.Time) (int64, error) {
	arrayFilters := options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"c.isActive": true, "c.endsAt": bson.M{"$lt": now}},
		},
	}

	result, err := gr.collection.UpdateMany(
		ctx,
		bson.M{"challenges": bson.M{"$elemMatch": bson.M{"isActive": true, "endsAt": bson.M{"$lt": now}}}},
		bson.M{"$set": bson.M{"challenges.$[c].isActive": false, "updatedAt": time.Now()}},
		options.Update().SetArrayFilters(arrayFilters),
	)
	if err != nil {
		return 0, err
	}

	return result.ModifiedCount, nil
}

// ============================================================================
// POSTS
// ============================================================================

func (gr *GroupRepository) PushPost(ctx context.Context, groupID primitive.ObjectID, post models.GroupPost) error {
	result, err := gr.collection.UpdateOne(
		ctx,
		bson.M{"_id": groupID},
		bson.M{
			"$push": bson.M{"posts": post},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("group not found")
	}
	return nil
}

// SetPostReaction replaces any prior reaction by the user on the post.
// Two writes: the pull is a no-op when the user had not reacted.
func (gr *GroupRepository) SetPostReaction(ctx context.Context, groupID, postID primitive.ObjectID, reaction models.PostReaction) error {
	postFilter := options.ArrayFilters{
		Filters: []interface{}{bson.M{"p.id": postID}},
	}

	_, err := gr.collection.UpdateOne(
		ctx,
		bson.M{"_id": groupID, "posts.id": postID},
		bson.M{"$pull": bson.M{"posts.$[p].reactions": bson.M{"userId": reaction.UserID}}},
		options.Update().SetArrayFilters(postFilter),
	)
	if err != nil {
		return err
	}

	result, err := gr.collection.UpdateOne(
		ctx,
		bson.M{"_id": groupID, "posts.id": postID},
		bson.M{
			"$push": bson.M{"posts.$.reactions": reaction},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("post not found")
	}
	return nil
}
