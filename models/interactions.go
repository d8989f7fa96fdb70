package models

// LikeEdge is a directed like from one profile to another.
// At most one edge exists per ordered pair (partition key + sort key).
// isNew stays true until the resulting match is marked as seen.
type LikeEdge struct {
	SenderProfileID string `dynamodbav:"senderProfileId" json:"senderProfileId"`
	TargetProfileID string `dynamodbav:"targetProfileId" json:"targetProfileId"`
	IsNew           bool   `dynamodbav:"isNew" json:"isNew"`
	CreatedAt       string `dynamodbav:"createdAt" json:"createdAt"`
}

// HiddenEdge records that the sender passed on the target. Upsert semantics.
type HiddenEdge struct {
	SenderProfileID string `dynamodbav:"senderProfileId" json:"senderProfileId"`
	TargetProfileID string `dynamodbav:"targetProfileId" json:"targetProfileId"`
	CreatedAt       string `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchRecord marks that a mutual like exists for an unordered pair.
// It is created with a conditional put on pairKey so that the like call
// completing the pair wins exactly once; reads still derive mutuality from
// the two edges.
type MatchRecord struct {
	PairKey   string `dynamodbav:"pairKey" json:"pairKey"`
	ProfileA  string `dynamodbav:"profileA" json:"profileA"`
	ProfileB  string `dynamodbav:"profileB" json:"profileB"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// LikeWithProfile is a sent like hydrated with the target profile and
// annotated with whether the pair is currently mutual.
type LikeWithProfile struct {
	Profile   ProfileSummary `json:"profile"`
	IsMatch   bool           `json:"isMatch"`
	IsNew     bool           `json:"isNew"`
	CreatedAt string         `json:"createdAt"`
}

// MatchWithProfile is a mutual like hydrated with the partner profile.
// IsNew reflects the viewer's own edge, not the partner's.
type MatchWithProfile struct {
	Profile   ProfileSummary `json:"profile"`
	IsNew     bool           `json:"isNew"`
	MatchedAt string         `json:"matchedAt"`
}

// PairKey returns the canonical key for an unordered profile pair.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "#" + b
}

// LikesTable is the DynamoDB table name for like edges
const LikesTable = "Likes"

// HiddenProfilesTable is the DynamoDB table name for hidden/pass edges
const HiddenProfilesTable = "HiddenProfiles"

// MatchesTable is the DynamoDB table name for match records
const MatchesTable = "Matches"

// TargetProfileIndex is the GSI for querying edges where the profile is the target
const TargetProfileIndex = "targetProfileId-index" // PK: targetProfileId
