package models

// Pet defines the structure for pet profiles
type Pet struct {
	PetID     string   `dynamodbav:"petId" json:"petId"`                           // ✅ Partition Key
	OwnerID   string   `dynamodbav:"ownerId" json:"ownerId"`                       // Indexed via GSI
	Name      string   `dynamodbav:"name" json:"name"`                             // Pet's display name
	Species   string   `dynamodbav:"species,omitempty" json:"species,omitempty"`   // dog, cat, etc.
	Breed     string   `dynamodbav:"breed,omitempty" json:"breed,omitempty"`       // Breed, free text
	Sex       string   `dynamodbav:"sex,omitempty" json:"sex,omitempty"`           // male/female/unknown
	Bio       string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`           // Short description
	Photos    []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"`     // S3 object keys
	CreatedAt string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// PetSummary is the slice of a pet profile embedded into match responses
type PetSummary struct {
	PetID   string `json:"petId"`
	OwnerID string `json:"ownerId"`
	Name    string `json:"name"`
	Species string `json:"species,omitempty"`
	Photo   string `json:"photo,omitempty"` // First photo only
}

// Summary reduces a full profile to the fields embedded in match payloads
func (p Pet) Summary() PetSummary {
	s := PetSummary{
		PetID:   p.PetID,
		OwnerID: p.OwnerID,
		Name:    p.Name,
		Species: p.Species,
	}
	if len(p.Photos) > 0 {
		s.Photo = p.Photos[0]
	}
	return s
}

// PetsTable is the DynamoDB table name for pet profiles
const PetsTable = "PetProfiles"

// OwnerIndex is the GSI for querying pets by their owner
const OwnerIndex = "ownerId-index"
