package chatsession

import "pawlink_server/models"

// MergeIncoming merges an incoming message into the local list, keyed by
// message id. A message that is already present leaves the list untouched,
// which makes the optimistic local append and the relay delivery of the same
// message commute: whichever arrives second is dropped. The result is always
// in rendering order.
//
// The input slice is not mutated; callers may hold the previous list.
func MergeIncoming(list []models.Message, incoming models.Message) ([]models.Message, bool) {
	for _, msg := range list {
		if msg.MessageID == incoming.MessageID {
			return list, false
		}
	}

	merged := make([]models.Message, len(list), len(list)+1)
	copy(merged, list)
	merged = append(merged, incoming)
	models.SortMessages(merged)
	return merged, true
}

// MergeAll merges a whole fetched history into the local list, used by the
// reconciliation path after a reconnect.
func MergeAll(list []models.Message, incoming []models.Message) []models.Message {
	for _, msg := range incoming {
		list, _ = MergeIncoming(list, msg)
	}
	return list
}
