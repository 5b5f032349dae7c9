package apperrors

var (
	// Domain errors — returned synchronously to the caller, never retried.
	ErrMatchNotFound    = NotFound("match not found")
	ErrDuplicateMatch   = AlreadyExists("an active match already exists for this pair")
	ErrNotParticipant   = Forbidden("user is not a participant of this match")
	ErrChannelArchived  = FailedPrecondition("chat channel is archived")
	ErrNotEligible      = FailedPrecondition("unlock threshold not reached")
	ErrAlreadyRequested = AlreadyExists("an unlock request from this user is already pending")
	ErrNoPendingRequest = FailedPrecondition("no pending unlock request")
	ErrSelfResponse     = FailedPrecondition("requester cannot respond to their own unlock request")
	ErrNotUnlocked      = FailedPrecondition("match is not unlocked yet")
	ErrAlreadyRated     = AlreadyExists("user has already rated this match")
	ErrAIQuotaExhausted = Exhausted("daily AI suggestion quota exhausted")
	ErrProfileNotFound  = NotFound("profile not found")
	ErrInvalidRating    = InvalidArg("rating must be between 0 and 10")
	ErrEmptyMessage     = InvalidArg("message content cannot be empty")
	ErrSelfMatch        = InvalidArg("cannot create a match between a user and themselves")
)
