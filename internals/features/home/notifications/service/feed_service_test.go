package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counselling_backend/internals/features/home/notifications/model"
	"counselling_backend/internals/testutil"
)

func TestFeedFetchMarksRead(t *testing.T) {
	db := testutil.NewDB(t)
	feed := NewFeedService(db)
	ctx := context.Background()
	user := uuid.New()
	other := uuid.New()

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, details := range []string{"first", "second", "third"} {
		row := model.NotificationModel{
			NotificationUserID:    user,
			NotificationDetails:   details,
			NotificationCreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&row).Error)
	}
	require.NoError(t, db.Create(&model.NotificationModel{NotificationUserID: other, NotificationDetails: "not mine"}).Error)

	n, err := feed.UnreadCount(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	rows, total, err := feed.Fetch(ctx, user, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "third", rows[0].NotificationDetails)
	assert.False(t, rows[0].NotificationIsRead)

	n, err = feed.UnreadCount(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "only the fetched page is marked read")

	n, err = feed.UnreadCount(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
