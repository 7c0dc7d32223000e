package nakama

import "encoding/json"

// MatchLabel is the indexed Nakama match label used by find_match queries.
type MatchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	State string `json:"state"`
}

func marshalLabel(open int, game, state string) (string, error) {
	b, err := json.Marshal(MatchLabel{Open: open, Game: game, State: state})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
