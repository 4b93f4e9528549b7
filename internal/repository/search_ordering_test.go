package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"necx-chat/internal/domain/message"
	"necx-chat/internal/repository"

	"github.com/stretchr/testify/require"
)

// assertSearchOrdering checks ranking, tie-breaking, the result cap and the
// inclusive date bounds against a live store.
func assertSearchOrdering(t *testing.T, repo repository.MessageRepository) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	create := func(content string, at time.Time) message.Message {
		m := message.Message{Content: content, Sender: "me", Recipient: "you", Timestamp: at}
		require.NoError(t, repo.Create(ctx, &m))
		return m
	}

	// 55 equally scored matches, one minute apart.
	for i := 0; i < message.SearchLimit+5; i++ {
		create(fmt.Sprintf("ping number %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	t.Run("capped and newest first on equal score", func(t *testing.T) {
		hits, err := repo.SearchText(ctx, "ping", message.SearchFilter{Limit: message.SearchLimit})
		require.NoError(t, err)
		require.Len(t, hits, message.SearchLimit)

		newest := base.Add(time.Duration(message.SearchLimit+4) * time.Minute)
		require.True(t, hits[0].Timestamp.Equal(newest))
		for i := 1; i < len(hits); i++ {
			require.True(t, hits[i-1].Timestamp.After(hits[i].Timestamp),
				"hit %d at %s is not older than hit %d at %s", i, hits[i].Timestamp, i-1, hits[i-1].Timestamp)
		}
	})

	t.Run("unbounded limit still capped", func(t *testing.T) {
		hits, err := repo.SearchText(ctx, "ping", message.SearchFilter{Limit: 500})
		require.NoError(t, err)
		require.Len(t, hits, message.SearchLimit)
	})

	t.Run("higher score outranks newer", func(t *testing.T) {
		strong := create("kiwi kiwi kiwi", base.Add(-time.Hour))
		weak := create("kiwi once here", base.Add(time.Hour))

		hits, err := repo.SearchText(ctx, "kiwi", message.SearchFilter{})
		require.NoError(t, err)
		require.Len(t, hits, 2)
		require.Equal(t, strong.ID, hits[0].ID)
		require.Equal(t, weak.ID, hits[1].ID)
	})

	t.Run("date bounds are inclusive", func(t *testing.T) {
		at := base.Add(24 * time.Hour)
		edge := create("mango at the edge", at)

		hits, err := repo.SearchText(ctx, "mango", message.SearchFilter{DateFrom: &at, DateTo: &at})
		require.NoError(t, err)
		require.Len(t, hits, 1)
		require.Equal(t, edge.ID, hits[0].ID)

		before := at.Add(-time.Second)
		hits, err = repo.SearchText(ctx, "mango", message.SearchFilter{DateTo: &before})
		require.NoError(t, err)
		require.Empty(t, hits)
	})
}
