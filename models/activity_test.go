package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestActivitySharedWithUser(t *testing.T) {
	owner := primitive.NewObjectID()
	friend := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	tests := []struct {
		name   string
		social ActivitySocialData
		viewer primitive.ObjectID
		want   bool
	}{
		{
			name:   "owner always sees their own activity",
			social: ActivitySocialData{},
			viewer: owner,
			want:   true,
		},
		{
			name:   "unshared activity hidden from others",
			social: ActivitySocialData{},
			viewer: friend,
			want:   false,
		},
		{
			name:   "shared with everyone",
			social: ActivitySocialData{IsShared: true},
			viewer: stranger,
			want:   true,
		},
		{
			name:   "shared with specific users includes target",
			social: ActivitySocialData{IsShared: true, SharedWith: []primitive.ObjectID{friend}},
			viewer: friend,
			want:   true,
		},
		{
			name:   "shared with specific users excludes others",
			social: ActivitySocialData{IsShared: true, SharedWith: []primitive.ObjectID{friend}},
			viewer: stranger,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Activity{OwnerID: owner, SocialData: tt.social}
			assert.Equal(t, tt.want, a.SharedWithUser(tt.viewer))
		})
	}
}

func TestActivityLikedBy(t *testing.T) {
	liker := primitive.NewObjectID()
	a := &Activity{
		SocialData: ActivitySocialData{
			Likes: []primitive.ObjectID{liker},
		},
	}

	assert.True(t, a.LikedBy(liker))
	assert.False(t, a.LikedBy(primitive.NewObjectID()))
}

func TestActivityRepeatLike(t *testing.T) {
	owner := primitive.NewObjectID()
	liker := primitive.NewObjectID()
	a := &Activity{
		OwnerID:    owner,
		SocialData: ActivitySocialData{IsShared: true},
	}

	// First like: not yet in the set, so the write and the owner
	// notification both proceed.
	assert.False(t, a.LikedBy(liker))

	a.SocialData.Likes = append(a.SocialData.Likes, liker)

	// Repeat like: already in the set, so the caller skips the write
	// and must not notify the owner again.
	assert.True(t, a.LikedBy(liker))
	assert.Len(t, a.SocialData.Likes, 1)
}

func TestActivityEngagementScore(t *testing.T) {
	a := &Activity{
		SocialData: ActivitySocialData{
			Likes: []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()},
			Comments: []ActivityComment{
				{UserID: primitive.NewObjectID(), Text: "love this", CreatedAt: time.Now()},
				{UserID: primitive.NewObjectID(), Text: "same", CreatedAt: time.Now()},
			},
		},
	}

	// likes + 2x comments
	assert.Equal(t, 7, a.EngagementScore())
	assert.Equal(t, 0, (&Activity{}).EngagementScore())
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.AddDate(0, 0, -1), WindowStart("day", now))
	assert.Equal(t, now.AddDate(0, 0, -7), WindowStart("week", now))
	assert.Equal(t, now.AddDate(0, -1, 0), WindowStart("month", now))
	assert.True(t, WindowStart("all", now).IsZero())
	assert.True(t, WindowStart("", now).IsZero())
}
