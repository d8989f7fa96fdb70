package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	ProfileID    string `dynamodbav:"profileId" json:"profileId"`
	UserID       string `dynamodbav:"userId,omitempty" json:"userId,omitempty"`
	PublicName   string `dynamodbav:"publicName,omitempty" json:"publicName,omitempty"`
	Email        string `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Bio          string `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Language     string `dynamodbav:"language,omitempty" json:"language,omitempty"`
	PhotoKey     string `dynamodbav:"photoKey,omitempty" json:"photoKey,omitempty"`
	IsActive     bool   `dynamodbav:"isActive" json:"isActive"`
	IsCallable   bool   `dynamodbav:"isCallable" json:"isCallable"`
	EmailOnEvent bool   `dynamodbav:"emailOnEvent" json:"emailOnEvent"`
}

// ProfileSummary is the hydrated subset attached to likes and matches.
type ProfileSummary struct {
	ProfileID  string `dynamodbav:"profileId" json:"profileId"`
	PublicName string `dynamodbav:"publicName" json:"publicName"`
	PhotoKey   string `dynamodbav:"photoKey,omitempty" json:"photoKey,omitempty"`
}

// Summary reduces a full profile to its hydration subset.
func (p UserProfile) Summary() ProfileSummary {
	return ProfileSummary{
		ProfileID:  p.ProfileID,
		PublicName: p.PublicName,
		PhotoKey:   p.PhotoKey,
	}
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
