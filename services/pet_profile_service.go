package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pawlink_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ErrPetNotFound is returned when a pet id does not resolve
var ErrPetNotFound = errors.New("pet profile not found")

// PetProfileService handles pet profile storage
type PetProfileService struct {
	Dynamo *DynamoService
}

// CreatePet stores a new pet profile, assigning id and creation timestamp
func (ps *PetProfileService) CreatePet(ctx context.Context, pet models.Pet) (models.Pet, error) {
	if pet.PetID == "" {
		pet.PetID = uuid.NewString()
	}
	pet.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := ps.Dynamo.PutItem(ctx, models.PetsTable, pet); err != nil {
		return models.Pet{}, fmt.Errorf("failed to create pet profile: %w", err)
	}
	return pet, nil
}

// GetPet retrieves a pet profile by id
func (ps *PetProfileService) GetPet(ctx context.Context, petID string) (models.Pet, error) {
	key := map[string]types.AttributeValue{
		"petId": &types.AttributeValueMemberS{Value: petID},
	}

	item, err := ps.Dynamo.GetItem(ctx, models.PetsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return models.Pet{}, ErrPetNotFound
		}
		return models.Pet{}, fmt.Errorf("failed to fetch pet profile: %w", err)
	}

	var pet models.Pet
	if err := attributevalue.UnmarshalMap(item, &pet); err != nil {
		return models.Pet{}, fmt.Errorf("failed to parse pet profile: %w", err)
	}
	return pet, nil
}

// GetPetsByOwner retrieves all pets belonging to an owner via the owner GSI
func (ps *PetProfileService) GetPetsByOwner(ctx context.Context, ownerID string) ([]models.Pet, error) {
	keyCondition := "#ownerId = :ownerId"
	expressionValues := map[string]types.AttributeValue{
		":ownerId": &types.AttributeValueMemberS{Value: ownerID},
	}
	expressionNames := map[string]string{
		"#ownerId": "ownerId",
	}

	items, err := ps.Dynamo.QueryItemsWithIndex(ctx, models.PetsTable, models.OwnerIndex, keyCondition, expressionValues, expressionNames, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pets for owner %s: %w", ownerID, err)
	}

	var pets []models.Pet
	if err := attributevalue.UnmarshalListOfMaps(items, &pets); err != nil {
		return nil, fmt.Errorf("failed to parse pet profiles: %w", err)
	}
	return pets, nil
}

// UpdatePhotos replaces the photo key list on a pet profile
func (ps *PetProfileService) UpdatePhotos(ctx context.Context, petID string, photos []string) error {
	photoValues := make([]types.AttributeValue, 0, len(photos))
	for _, key := range photos {
		photoValues = append(photoValues, &types.AttributeValueMemberS{Value: key})
	}

	key := map[string]types.AttributeValue{
		"petId": &types.AttributeValueMemberS{Value: petID},
	}
	updateExpression := "SET photos = :photos"
	expressionValues := map[string]types.AttributeValue{
		":photos": &types.AttributeValueMemberL{Value: photoValues},
	}

	if _, err := ps.Dynamo.UpdateItem(ctx, models.PetsTable, updateExpression, key, expressionValues, nil); err != nil {
		return fmt.Errorf("failed to update photos for pet %s: %w", petID, err)
	}
	return nil
}
