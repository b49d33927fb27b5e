package feeds

import (
	"sort"

	"eduhub/models"
)

// byRecency sorts posts by keys resolved once up front, keeping the two
// slices aligned on every swap
type byRecency struct {
	posts []models.SocialPost
	keys  []float64
}

func (b byRecency) Len() int           { return len(b.posts) }
func (b byRecency) Less(i, j int) bool { return b.keys[i] > b.keys[j] }
func (b byRecency) Swap(i, j int) {
	b.posts[i], b.posts[j] = b.posts[j], b.posts[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

// SortByRecency orders posts newest first by resolved timestamp. Posts
// without a usable timestamp resolve to 0 and sink to the end. Ties keep
// their relative order.
func SortByRecency(posts []models.SocialPost) {
	keys := make([]float64, len(posts))
	for i := range posts {
		keys[i] = posts[i].Timestamp.Resolve()
	}
	sort.Stable(byRecency{posts: posts, keys: keys})
}
