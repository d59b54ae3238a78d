package services

import (
	"context"
	"errors"
	"time"

	"wellnest/models"
	"wellnest/repositories"
	"wellnest/websocket"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FriendService struct {
	userRepo *repositories.UserRepository
	hub      *websocket.Hub
}

func NewFriendService(userRepo *repositories.UserRepository, hub *websocket.Hub) *FriendService {
	return &FriendService{
		userRepo: userRepo,
		hub:      hub,
	}
}

// SendRequest creates a pending entry on both sides. The two writes are
// sequential and independently committed; a failure after the first one
// leaves a dangling entry that the remove path can still clean up.
func (fs *FriendService) SendRequest(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == toUserID {
		return models.ErrSelfFriendRequest
	}

	fromID, err := primitive.ObjectIDFromHex(fromUserID)
	if err != nil {
		return errors.New("invalid user ID")
	}
	toID, err := primitive.ObjectIDFromHex(toUserID)
	if err != nil {
		return errors.New("invalid user ID")
	}

	sender, err := fs.userRepo.GetByID(ctx, fromUserID)
	if err != nil {
		return err
	}
	recipient, err := fs.userRepo.GetByID(ctx, toUserID)
	if err != nil {
		return err
	}
	if !recipient.IsActive {
		return errors.New("user not found")
	}

	if entry := sender.FriendEntryFor(toID); entry != nil {
		if entry.Status == models.FriendStatusAccepted {
			return models.ErrAlreadyFriends
		}
		return models.ErrFriendRequestExists
	}

	now := time.Now()
	if err := fs.userRepo.AddFriendEntry(ctx, fromID, models.FriendEntry{
		UserID:      toID,
		Status:      models.FriendStatusPending,
		RequestedBy: fromID,
		Since:       now,
	}); err != nil {
		return err
	}

	if err := fs.userRepo.AddFriendEntry(ctx, toID, models.FriendEntry{
		UserID:      fromID,
		Status:      models.FriendStatusPending,
		RequestedBy: fromID,
		Since:       now,
	}); err != nil {
		return err
	}

	fs.hub.SendToUser(toUserID, models.WSMessage{
		Type: models.WSEventFriendRequest,
		Data: models.WSFriendRequest{
			FromUserID:   fromUserID,
			FromUsername: sender.Username,
			Status:       models.FriendStatusPending,
			Timestamp:    now,
		},
		UserID:    toUserID,
		Timestamp: now,
	})

	return nil
}

// AcceptRequest flips both sides of a pending pair to accepted. Only the
// side that did not initiate the request may accept.
func (fs *FriendService) AcceptRequest(ctx context.Context, userID, requesterID string) error {
	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.New("invalid user ID")
	}
	rID, err := primitive.ObjectIDFromHex(requesterID)
	if err != nil {
		return errors.New("invalid user ID")
	}

	user, err := fs.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	entry := user.FriendEntryFor(rID)
	if entry == nil || entry.Status != models.FriendStatusPending {
		return models.ErrFriendRequestNotFound
	}
	if entry.RequestedBy == uID {
		return errors.New("cannot accept your own request")
	}

	now := time.Now()
	if err := fs.userRepo.SetFriendStatus(ctx, uID, rID, models.FriendStatusAccepted, now); err != nil {
		return err
	}
	if err := fs.userRepo.SetFriendStatus(ctx, rID, uID, models.FriendStatusAccepted, now); err != nil {
		return err
	}

	fs.hub.SendToUser(requesterID, models.WSMessage{
		Type: models.WSEventFriendRequest,
		Data: models.WSFriendRequest{
			FromUserID:   userID,
			FromUsername: user.Username,
			Status:       models.FriendStatusAccepted,
			Timestamp:    now,
		},
		UserID:    requesterID,
		Timestamp: now,
	})

	return nil
}

// Remove deletes the relationship entry from both sides. Covers both
// declining a pending request and unfriending.
func (fs *FriendService) Remove(ctx context.Context, userID, friendID string) error {
	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.New("invalid user ID")
	}
	fID, err := primitive.ObjectIDFromHex(friendID)
	if err != nil {
		return errors.New("invalid user ID")
	}

	if err := fs.userRepo.RemoveFriendEntry(ctx, uID, fID); err != nil {
		return err
	}
	if err := fs.userRepo.RemoveFriendEntry(ctx, fID, uID); err != nil {
		// The first side is already gone; log and report success so a
		// retry does not surface a phantom not-found to the caller.
		logrus.Warnf("Friend entry for %s missing on %s during removal: %v", userID, friendID, err)
	}

	return nil
}

// ListFriends returns accepted friends as public profiles.
func (fs *FriendService) ListFriends(ctx context.Context, userID string) ([]models.PublicProfile, error) {
	user, err := fs.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var friendIDs []primitive.ObjectID
	for _, f := range user.SocialData.Friends {
		if f.Status == models.FriendStatusAccepted {
			friendIDs = append(friendIDs, f.UserID)
		}
	}
	if len(friendIDs) == 0 {
		return []models.PublicProfile{}, nil
	}

	friends, err := fs.userRepo.GetUsersByIDs(ctx, friendIDs)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.PublicProfile, 0, len(friends))
	for i := range friends {
		profiles = append(profiles, friends[i].PublicView(true))
	}

	return profiles, nil
}

// ListRequests returns pending entries, filtered by direction.
func (fs *FriendService) ListRequests(ctx context.Context, userID, direction string) ([]models.FriendEntry, error) {
	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	user, err := fs.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	requests := []models.FriendEntry{}
	for _, f := range user.SocialData.Friends {
		if f.Status != models.FriendStatusPending {
			continue
		}
		switch direction {
		case "sent":
			if f.RequestedBy == uID {
				requests = append(requests, f)
			}
		case "received":
			if f.RequestedBy != uID {
				requests = append(requests, f)
			}
		default:
			requests = append(requests, f)
		}
	}

	return requests, nil
}

// FriendIDs returns the object IDs of accepted friends.
func (fs *FriendService) FriendIDs(ctx context.Context, userID string) ([]primitive.ObjectID, error) {
	user, err := fs.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var ids []primitive.ObjectID
	for _, f := range user.SocialData.Friends {
		if f.Status == models.FriendStatusAccepted {
			ids = append(ids, f.UserID)
		}
	}
	return ids, nil
}
