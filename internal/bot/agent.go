package bot

import (
	"dhihaei/internal/domain"
)

// Agent represents an autonomous seat: an identity plus the strategy that
// moves it.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgentForIdentity builds an agent running the strategy the identity
// names.
func NewAgentForIdentity(identity BotIdentity) (*Agent, error) {
	level, err := ParseBotLevel(identity.Level)
	if err != nil {
		return nil, err
	}
	brain, err := NewBrain(level)
	if err != nil {
		return nil, err
	}
	return &Agent{
		ID:       identity.UserID,
		Name:     identity.DisplayName,
		Strategy: brain,
	}, nil
}

// Play asks the agent for its card at the given turn.
func (a *Agent) Play(turn Turn) (domain.Card, error) {
	return a.Strategy.ChooseCard(turn)
}

// OnRoundStart resets the agent's strategy for a new deal.
func (a *Agent) OnRoundStart(hand []domain.Card) {
	a.Strategy.ObserveRoundStart(hand)
}

// OnPlay lets the agent watch every card hitting the table.
func (a *Agent) OnPlay(seat int, card domain.Card, ledSuit domain.Suit) {
	a.Strategy.ObservePlay(seat, card, ledSuit)
}
