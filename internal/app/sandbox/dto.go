package sandbox

type RegisterRequest struct {
	Name     string
	Password string
	Rank     int
	Gold     int
	Turns    int
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

type DirectoryRequest struct {
	StartRank int
	Count     int
}

type PlayerEntry struct {
	Name string `json:"name"`
	Gold int    `json:"gold"`
	Rank int    `json:"rank"`
}

type DirectoryResponse struct {
	Players []PlayerEntry `json:"players"`
}

type AttackRequest struct {
	Attacker string
	Target   string
}

type WeaponsResponse struct {
	Wear int `json:"wear"`
}

type ChestResponse struct {
	HeldGold  int `json:"held_gold"`
	ChestGold int `json:"chest_gold"`
}

type DepositRequest struct {
	Name   string
	Amount int
}
