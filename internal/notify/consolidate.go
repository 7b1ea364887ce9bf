package notify

// Consolidate splits the recipients of one comment event so every user gets at
// most one notification. Mentions win over assignment; the actor is dropped
// from both lists. Inputs are deduplicated and outputs keep first-seen order.
func Consolidate(assigned, mentioned []uint, actorID uint) (mentionRecipients, commentRecipients []uint) {
	mentionedSet := make(map[uint]struct{}, len(mentioned))
	for _, id := range dedupe(mentioned) {
		mentionedSet[id] = struct{}{}
		if id != actorID {
			mentionRecipients = append(mentionRecipients, id)
		}
	}
	for _, id := range dedupe(assigned) {
		if _, ok := mentionedSet[id]; ok || id == actorID {
			continue
		}
		commentRecipients = append(commentRecipients, id)
	}
	return mentionRecipients, commentRecipients
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
