package models

// Status is the derived, client-only state of a topic's voting session.
// Values are the labels the remote service uses in topic listings.
type Status string

const (
	StatusAwaitingOpening Status = "Aguardando Abertura"
	StatusOpen            Status = "Sessão Aberta"
	StatusClosed          Status = "Votação Encerrada"
)

// ParseStatus reports whether s is one of the known labels.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusAwaitingOpening, StatusOpen, StatusClosed:
		return Status(s), true
	}
	return "", false
}

func (s Status) String() string {
	return string(s)
}
