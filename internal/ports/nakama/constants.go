package nakama

const (
	// RpcFindMatch is the Nakama RPC id clients call to find or create a match
	// for either game.
	RpcFindMatch = "find_match"

	// RpcSessionToken is the Nakama RPC id clients call to obtain a seat
	// rejoin token for a running match.
	RpcSessionToken = "session_token"

	// MatchNameDhihaEi is the authoritative trick game handler name registered with Nakama.
	MatchNameDhihaEi = "dhihaei_match"

	// MatchNameDigu is the authoritative rummy handler name registered with Nakama.
	MatchNameDigu = "digu_match"
)

const (
	MatchLabelKey_OpenSeats = "open" // Key for the open seats in the match label
	MatchLabelKey_Game      = "game" // Key for the game name in the match label
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame   int64 = 1
	OpPlayCard    int64 = 2
	OpDrawCard    int64 = 3
	OpRearrange   int64 = 4
	OpFinishMeld  int64 = 5
	OpDiscard     int64 = 6
	OpDeclareDigu int64 = 7
	OpResetStats  int64 = 8
	OpLeaveTable  int64 = 9

	// Server -> Client events, shared
	OpLobbyState    int64 = 101
	OpMatchSnapshot int64 = 102
	OpGameError     int64 = 103

	// Server -> Client events, trick game
	OpMatchStarted     int64 = 110
	OpHandDealt        int64 = 111 // send privately
	OpRoundStarted     int64 = 112
	OpCardPlayed       int64 = 113
	OpTrumpEstablished int64 = 114
	OpTrickWon         int64 = 115
	OpRoundEnded       int64 = 116
	OpMatchEnded       int64 = 117
	OpMatchAbandoned   int64 = 118

	// Server -> Client events, rummy
	OpDiguStarted   int64 = 130
	OpDiguDealt     int64 = 131 // send privately
	OpCardDrawn     int64 = 132 // send privately
	OpDrawMade      int64 = 133
	OpHandArranged  int64 = 134 // send privately
	OpMeldingDone   int64 = 135
	OpCardDiscarded int64 = 136
	OpDiguDeclared  int64 = 137
	OpDiguAbandoned int64 = 138
	OpStatsReset    int64 = 139
)
