package models

// UserProfile is the slice of the user record this core reads: a display
// name for notifications and the storage keys of profile photos whose
// visibility the unlock flow gates. Everything else about a user lives in
// the external profile service.
type UserProfile struct {
	UserID    string   `dynamodbav:"userId" json:"userId"`
	Name      string   `dynamodbav:"name" json:"name"`
	PhotoKeys []string `dynamodbav:"photoKeys" json:"photoKeys"`
	CreatedAt string   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt string   `dynamodbav:"updatedAt" json:"updatedAt"`
}
