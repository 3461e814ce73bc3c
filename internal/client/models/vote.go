package models

import "strings"

// Choice is a single ballot option.
type Choice string

const (
	ChoiceYes Choice = "Sim"
	ChoiceNo  Choice = "Não"
)

// ParseChoice accepts "sim", "nao" and "não" in any case.
func ParseChoice(s string) (Choice, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sim", "s", "yes", "y":
		return ChoiceYes, true
	case "não", "nao", "n", "no":
		return ChoiceNo, true
	}
	return "", false
}

// VoteTally is the aggregate owned by the remote service.
type VoteTally struct {
	TopicID int64 `json:"-"`
	Sim     int64 `json:"Sim"`
	Nao     int64 `json:"Não"`
}

// Total returns the number of votes cast.
func (t VoteTally) Total() int64 {
	return t.Sim + t.Nao
}
