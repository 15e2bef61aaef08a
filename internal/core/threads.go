package core

import "github.com/adamavenir/slackdump-render/internal/types"

// FlattenThreads orders a channel's chronological messages for display.
// Each message is followed directly by those of its children not yet shown;
// everything else keeps its chronological slot. No message is emitted twice.
func FlattenThreads(messages []*types.Message) []*types.Message {
	ordered := make([]*types.Message, 0, len(messages))
	emitted := make(map[string]struct{}, len(messages))

	for _, msg := range messages {
		if _, ok := emitted[msg.ID]; ok {
			continue
		}
		emitted[msg.ID] = struct{}{}
		ordered = append(ordered, msg)

		for _, child := range msg.Children {
			if _, ok := emitted[child.ID]; ok {
				continue
			}
			emitted[child.ID] = struct{}{}
			ordered = append(ordered, child)
		}
	}

	return ordered
}

// CountThreads returns how many messages have at least one reply.
func CountThreads(messages []*types.Message) int {
	count := 0
	for _, msg := range messages {
		if len(msg.Children) > 0 {
			count++
		}
	}
	return count
}
