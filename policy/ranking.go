package policy

const (
	// MaxResults is the largest result list the service may return
	MaxResults = 50
	// DefaultRelevanceResults is the number of leading results expected to be
	// ranked by relevance rather than personalization
	DefaultRelevanceResults = 5
)

// VerifyRankingOrder checks that results do not exceed MaxResults.
//
// TODO: verify that the first maxRelevanceResults items are relevance ranked
// and the remainder personalized once the service documents its ranking.
func VerifyRankingOrder(results []map[string]any, maxRelevanceResults int) bool {
	_ = maxRelevanceResults
	return len(results) <= MaxResults
}
