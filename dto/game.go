package dto

type TakeFromMarketRequest struct {
	PlayerID  string `form:"player_id" json:"player_id"`
	CardIndex *int   `form:"card_index" json:"card_index"`
}

type PlayCardRequest struct {
	PlayerID    string `form:"player_id" json:"player_id"`
	CardCompany string `form:"card_company" json:"card_company"`
	Action      string `form:"action" json:"action"`
}

type DrawResponse struct {
	Drawn     string `json:"drawn"`
	MoneyLeft int    `json:"money_left"`
}

type TakeResponse struct {
	Taken       string `json:"taken"`
	CoinsGained int    `json:"coins_gained"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// ClientMessage websocket 上行的动作消息
type ClientMessage struct {
	Type        string `mapstructure:"type"`
	CardIndex   *int   `mapstructure:"card_index"`
	CardCompany string `mapstructure:"card_company"`
	Action      string `mapstructure:"action"`
}
