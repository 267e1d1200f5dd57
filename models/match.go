package models

// Match represents a pairing between two pet profiles. Each side keeps its own
// accept/reject decision; MatchStatus is derived from the pair and stored
// alongside so queries can filter on it directly.
type Match struct {
	MatchID     string `dynamodbav:"matchId" json:"matchId"` // ✅ Partition Key
	Pet1ID      string `dynamodbav:"pet1Id" json:"pet1Id"`   // Side that expressed interest
	Owner1ID    string `dynamodbav:"owner1Id" json:"owner1Id"`
	Pet2ID      string `dynamodbav:"pet2Id" json:"pet2Id"` // Side that responds
	Owner2ID    string `dynamodbav:"owner2Id" json:"owner2Id"`
	Status1     string `dynamodbav:"status1" json:"status1"`         // pending, accepted, rejected
	Status2     string `dynamodbav:"status2" json:"status2"`         // pending, accepted, rejected
	MatchStatus string `dynamodbav:"matchStatus" json:"matchStatus"` // pending, matched, rejected
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
	LastUpdated string `dynamodbav:"lastUpdated" json:"lastUpdated"`
}

// MatchWithPets combines a Match with both embedded pet summaries, resolved
// from the caller's point of view.
type MatchWithPets struct {
	Match
	MyPet    PetSummary `json:"myPet"`
	OtherPet PetSummary `json:"otherPet"`
}

// DeriveStatus recomputes the overall match status from the two sides.
// Matched requires both sides accepted; a single rejection is terminal.
func (m Match) DeriveStatus() string {
	if m.Status1 == SideStatusRejected || m.Status2 == SideStatusRejected {
		return MatchStatusRejected
	}
	if m.Status1 == SideStatusAccepted && m.Status2 == SideStatusAccepted {
		return MatchStatusMatched
	}
	return MatchStatusPending
}

// HasParticipant reports whether the given owner is one of the two sides
func (m Match) HasParticipant(ownerID string) bool {
	return m.Owner1ID == ownerID || m.Owner2ID == ownerID
}

// HasPets reports whether the match pairs exactly the two given pets,
// in either order.
func (m Match) HasPets(petA, petB string) bool {
	return (m.Pet1ID == petA && m.Pet2ID == petB) || (m.Pet1ID == petB && m.Pet2ID == petA)
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// GSIs for querying matches from either side of the pair
const (
	Pet1Index = "pet1Id-index"
	Pet2Index = "pet2Id-index"
)
