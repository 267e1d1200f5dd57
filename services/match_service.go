package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pawlink_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// Access-guard and lifecycle errors. The controllers map these onto HTTP
// status codes, so they must stay distinguishable with errors.Is.
var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrNotParticipant   = errors.New("user is not a participant of this match")
	ErrNotMatched       = errors.New("match is not in matched state")
	ErrNotPetOwner      = errors.New("pet does not belong to this user")
	ErrSelfMatch        = errors.New("cannot match a pet with its own owner's pet")
	ErrAlreadyResponded = errors.New("this side of the match has already responded")
)

// MatchService owns the match lifecycle: interest creation, the other side's
// response, and the chat access guard.
type MatchService struct {
	Dynamo *DynamoService
	Pets   *PetProfileService
}

// ExpressInterest creates a pending match initiated by petID towards
// targetPetID. The initiating side counts as accepted; the target side starts
// pending. If a match for the pair already exists it is returned unchanged,
// so repeated swipes stay idempotent.
func (ms *MatchService) ExpressInterest(ctx context.Context, ownerID, petID, targetPetID string) (models.Match, error) {
	pet, err := ms.Pets.GetPet(ctx, petID)
	if err != nil {
		return models.Match{}, err
	}
	if pet.OwnerID != ownerID {
		return models.Match{}, ErrNotPetOwner
	}

	target, err := ms.Pets.GetPet(ctx, targetPetID)
	if err != nil {
		return models.Match{}, err
	}
	if target.OwnerID == ownerID {
		return models.Match{}, ErrSelfMatch
	}

	if existing, err := ms.findMatchForPair(ctx, petID, targetPetID); err == nil {
		log.Printf("🔁 Interest already recorded for pets %s/%s, returning match %s", petID, targetPetID, existing.MatchID)
		return existing, nil
	} else if !errors.Is(err, ErrMatchNotFound) {
		return models.Match{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	match := models.Match{
		MatchID:     uuid.NewString(),
		Pet1ID:      pet.PetID,
		Owner1ID:    pet.OwnerID,
		Pet2ID:      target.PetID,
		Owner2ID:    target.OwnerID,
		Status1:     models.SideStatusAccepted,
		Status2:     models.SideStatusPending,
		CreatedAt:   now,
		LastUpdated: now,
	}
	match.MatchStatus = match.DeriveStatus()

	if err := ms.Dynamo.PutItem(ctx, models.MatchesTable, match); err != nil {
		return models.Match{}, fmt.Errorf("failed to create match: %w", err)
	}

	log.Printf("💘 Pet %s expressed interest in pet %s (match %s)", petID, targetPetID, match.MatchID)
	return match, nil
}

// Respond records the pending side's accept/reject decision and recomputes
// the overall match status. Rejection keeps the row; nothing is deleted.
func (ms *MatchService) Respond(ctx context.Context, ownerID, matchID, petID, action string) (models.Match, error) {
	if action != models.SideStatusAccepted && action != models.SideStatusRejected {
		return models.Match{}, fmt.Errorf("invalid action %q", action)
	}

	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return models.Match{}, err
	}

	var statusAttr, current string
	switch {
	case match.Pet1ID == petID && match.Owner1ID == ownerID:
		statusAttr, current = "status1", match.Status1
	case match.Pet2ID == petID && match.Owner2ID == ownerID:
		statusAttr, current = "status2", match.Status2
	default:
		return models.Match{}, ErrNotParticipant
	}

	if current != models.SideStatusPending {
		return models.Match{}, ErrAlreadyResponded
	}

	if statusAttr == "status1" {
		match.Status1 = action
	} else {
		match.Status2 = action
	}
	match.MatchStatus = match.DeriveStatus()
	match.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	updateExpression := fmt.Sprintf("SET %s = :status, matchStatus = :matchStatus, lastUpdated = :lastUpdated", statusAttr)
	expressionValues := map[string]types.AttributeValue{
		":status":      &types.AttributeValueMemberS{Value: action},
		":matchStatus": &types.AttributeValueMemberS{Value: match.MatchStatus},
		":lastUpdated": &types.AttributeValueMemberS{Value: match.LastUpdated},
	}

	if _, err := ms.Dynamo.UpdateItem(ctx, models.MatchesTable, updateExpression, key, expressionValues, nil); err != nil {
		return models.Match{}, fmt.Errorf("failed to record response: %w", err)
	}

	log.Printf("✅ Match %s side %s responded %q, overall status now %q", matchID, petID, action, match.MatchStatus)
	return match, nil
}

// GetMatch fetches a match row by id
func (ms *MatchService) GetMatch(ctx context.Context, matchID string) (models.Match, error) {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}

	item, err := ms.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return models.Match{}, ErrMatchNotFound
		}
		return models.Match{}, fmt.Errorf("failed to fetch match: %w", err)
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return models.Match{}, fmt.Errorf("failed to parse match: %w", err)
	}
	return match, nil
}

// AuthorizeChat is the chat access guard: it resolves the match, verifies the
// caller owns one of its pets and that both sides accepted, and returns the
// match with pet summaries assigned from the caller's point of view. Chat
// history is never fetched when this fails.
func (ms *MatchService) AuthorizeChat(ctx context.Context, matchID, userID string) (models.MatchWithPets, error) {
	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return models.MatchWithPets{}, err
	}

	if !match.HasParticipant(userID) {
		return models.MatchWithPets{}, ErrNotParticipant
	}
	if match.MatchStatus != models.MatchStatusMatched {
		return models.MatchWithPets{}, ErrNotMatched
	}

	pet1, err := ms.Pets.GetPet(ctx, match.Pet1ID)
	if err != nil {
		return models.MatchWithPets{}, err
	}
	pet2, err := ms.Pets.GetPet(ctx, match.Pet2ID)
	if err != nil {
		return models.MatchWithPets{}, err
	}

	result := models.MatchWithPets{Match: match}
	if pet1.OwnerID == userID {
		result.MyPet, result.OtherPet = pet1.Summary(), pet2.Summary()
	} else {
		result.MyPet, result.OtherPet = pet2.Summary(), pet1.Summary()
	}
	return result, nil
}

// GetMatchesForPet lists every match the pet participates in, from either
// side, with both pet summaries embedded.
func (ms *MatchService) GetMatchesForPet(ctx context.Context, petID string) ([]models.MatchWithPets, error) {
	pet, err := ms.Pets.GetPet(ctx, petID)
	if err != nil {
		return nil, err
	}

	var matches []models.Match
	for _, index := range []struct{ name, attr string }{
		{models.Pet1Index, "pet1Id"},
		{models.Pet2Index, "pet2Id"},
	} {
		keyCondition := fmt.Sprintf("#%s = :petId", index.attr)
		items, err := ms.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, index.name, keyCondition,
			map[string]types.AttributeValue{":petId": &types.AttributeValueMemberS{Value: petID}},
			map[string]string{"#" + index.attr: index.attr}, 100)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch matches for pet %s: %w", petID, err)
		}

		var page []models.Match
		if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
			return nil, fmt.Errorf("failed to parse matches: %w", err)
		}
		matches = append(matches, page...)
	}

	enriched := make([]models.MatchWithPets, 0, len(matches))
	for _, match := range matches {
		otherPetID := match.Pet2ID
		if match.Pet2ID == petID {
			otherPetID = match.Pet1ID
		}
		other, err := ms.Pets.GetPet(ctx, otherPetID)
		if err != nil {
			log.Printf("⚠️ Skipping match %s, counterpart pet %s not found: %v", match.MatchID, otherPetID, err)
			continue
		}
		enriched = append(enriched, models.MatchWithPets{
			Match:    match,
			MyPet:    pet.Summary(),
			OtherPet: other.Summary(),
		})
	}
	return enriched, nil
}

// findMatchForPair looks for an existing match row pairing the two pets in
// either order.
func (ms *MatchService) findMatchForPair(ctx context.Context, petA, petB string) (models.Match, error) {
	for _, index := range []struct{ name, attr string }{
		{models.Pet1Index, "pet1Id"},
		{models.Pet2Index, "pet2Id"},
	} {
		keyCondition := fmt.Sprintf("#%s = :petId", index.attr)
		items, err := ms.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, index.name, keyCondition,
			map[string]types.AttributeValue{":petId": &types.AttributeValueMemberS{Value: petA}},
			map[string]string{"#" + index.attr: index.attr}, 100)
		if err != nil {
			return models.Match{}, fmt.Errorf("failed to look up existing matches: %w", err)
		}

		var page []models.Match
		if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
			return models.Match{}, fmt.Errorf("failed to parse matches: %w", err)
		}
		for _, match := range page {
			if match.HasPets(petA, petB) {
				return match, nil
			}
		}
	}
	return models.Match{}, ErrMatchNotFound
}
