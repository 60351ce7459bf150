package chat

import "time"

// Session identifies one ongoing exchange. The id is an opaque UUID;
// participants and the creation time are explicit fields rather than being
// encoded into the identifier, so persona ids containing arbitrary
// characters can never corrupt lookups.
type Session struct {
	ID             string    `json:"id"`
	ParticipantIDs []string  `json:"participantIds"`
	CreatedAt      time.Time `json:"createdAt"`
}
