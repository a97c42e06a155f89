package realm

import (
	"errors"
	"time"
)

var (
	ErrSelfAttack       = errors.New("cannot attack own account")
	ErrNoTurnsLeft      = errors.New("no turns left")
	ErrInsufficientGold = errors.New("insufficient gold")
	ErrInvalidAmount    = errors.New("invalid amount")
)

// Account is the server-side state of one player in the sandbox realm.
type Account struct {
	Name      string    `json:"name"`
	Rank      int       `json:"rank"`
	Gold      int       `json:"gold"`
	Chest     int       `json:"chest"`
	Wear      int       `json:"wear"`
	Turns     int       `json:"turns"`
	KeySalt   []byte    `json:"-"`
	KeyHash   []byte    `json:"-"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AttackResult string

const (
	AttackVictory AttackResult = "victory"
	AttackDefeat  AttackResult = "defeat"
)

type AttackOutcome struct {
	Result     AttackResult `json:"result"`
	GoldStolen int          `json:"gold_stolen"`
}

type RepairOutcome struct {
	Wear int `json:"wear"`
	Cost int `json:"cost"`
}
