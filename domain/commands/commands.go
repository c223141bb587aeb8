package commands

type Command interface {
	Name() string
}

type EnterLobby struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

func (e EnterLobby) Name() string { return "ENTER_LOBBY" }

type LeaveLobby struct {
	PlayerID string `json:"playerId"`
}

func (l LeaveLobby) Name() string { return "LEAVE_LOBBY" }

type StartHand struct {
	PlayerID   string `json:"playerId,omitempty"`
	BotCount   int    `json:"botCount"`
	HighRoller bool   `json:"highRoller"`
}

func (s StartHand) Name() string { return "START_HAND" }

type PlayerActs struct {
	PlayerID string `json:"playerId,omitempty"`
	Action   string `json:"action"`
	Amount   int    `json:"amount"`
}

func (p PlayerActs) Name() string { return "PLAYER_ACTS" }

type GetState struct {
	PlayerID string `json:"playerId,omitempty"`
}

func (g GetState) Name() string { return "GET_STATE" }
