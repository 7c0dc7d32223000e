package nakama

import (
	"dhihaei/internal/bot"
	"dhihaei/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// seatRoster derives the occupied table seats from the seat assignment.
// Provisioned bot identities are scripted, everyone else plays over the
// socket. Display names come from the connected presence, falling back to
// the bot identity and then the raw user id. Control reflects who supplies
// the seat's moves, not whether the occupant is connected right now.
func seatRoster(seats [4]string, presences map[string]runtime.Presence) []domain.Seat {
	roster := make([]domain.Seat, 0, len(seats))
	for i, userId := range seats {
		if userId == "" {
			continue
		}
		s := domain.Seat{Position: i, Name: userId, Control: domain.ControlRemote}
		if isBotUserId(userId) {
			s.Control = domain.ControlScripted
		}
		if p, exists := presences[userId]; exists {
			s.Name = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userId); name != "" {
			s.Name = name
		}
		roster = append(roster, s)
	}
	return roster
}
