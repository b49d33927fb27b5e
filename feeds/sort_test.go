package feeds_test

import (
	"fmt"
	"testing"

	"eduhub/feeds"
	"eduhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortByRecency(t *testing.T) {
	posts := []models.SocialPost{
		post("undated", nil),
		post("jan1", models.TimestampFromString("2024-01-01")),
		post("garbage", models.TimestampFromString("not a date")),
		post("jan2", models.TimestampFromString("2024-01-02T00:00:00Z")),
		post("jan1-again", models.TimestampFromString("2024-01-01T00:00:00Z")),
		post("epoch", models.TimestampFromEpoch(5)),
	}

	feeds.SortByRecency(posts)

	assert.Equal(t, []string{"jan2", "jan1", "jan1-again", "epoch", "undated", "garbage"}, postIDs(posts))

	for i := 1; i < len(posts); i++ {
		assert.GreaterOrEqual(t, posts[i-1].Timestamp.Resolve(), posts[i].Timestamp.Resolve())
	}
}

func TestSortByRecencyEmpty(t *testing.T) {
	posts := []models.SocialPost{}
	feeds.SortByRecency(posts)
	assert.Empty(t, posts)
}

func TestSortByRecencyLargeFeedIsStable(t *testing.T) {
	days := []string{"2024-01-03", "2024-01-01", "2024-01-02", "bad"}

	posts := make([]models.SocialPost, 0, 400)
	for i := 0; i < 400; i++ {
		day := days[i%len(days)]
		posts = append(posts, post(fmt.Sprintf("%s#%03d", day, i), models.TimestampFromString(day)))
	}

	feeds.SortByRecency(posts)

	for i := 1; i < len(posts); i++ {
		prev, cur := posts[i-1], posts[i]
		require.GreaterOrEqual(t, prev.Timestamp.Resolve(), cur.Timestamp.Resolve())
		if prev.Timestamp.String() == cur.Timestamp.String() {
			// Same day, so input order must survive
			assert.Less(t, prev.ID, cur.ID)
		}
	}
	assert.Equal(t, "2024-01-03#000", posts[0].ID)
	assert.Equal(t, "bad#399", posts[len(posts)-1].ID)
}
