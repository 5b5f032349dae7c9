package models

// DynamoDB table names
const (
	MatchesTable      = "Matches"
	ChannelsTable     = "Channels"
	MessagesTable     = "Messages"
	UserProfilesTable = "UserProfiles"
)

// PairKeyIndex is the GSI on Matches used for duplicate-pair lookups.
const PairKeyIndex = "pairKey-index"
