package devapi

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	errUserExists        = errors.New("usuário já existe")
	errInvalidCPF        = errors.New("cpf inválido")
	errShortPassword     = errors.New("senha muito curta")
	errBadCredentials    = errors.New("usuário ou senha inválidos")
	errTopicNotFound     = errors.New("pauta não encontrada")
	errSessionNotFound   = errors.New("Sessão não encontrada para a pauta")
	errSessionOpen       = errors.New("Sessão de votação já está aberta")
	errSessionNotOpen    = errors.New("Sessão de votação não está aberta")
	errSessionStillOpen  = errors.New("Sessão de votação ainda está aberta")
	errAlreadyVoted      = errors.New("Usuário já votou nesta pauta")
	errEmptyTopicName    = errors.New("Nome da pauta é obrigatório")
	errRequiredFields    = errors.New("campos obrigatórios não preenchidos")
	errInvalidChoiceText = errors.New("Voto deve ser 'Sim' ou 'Não'")
)

type user struct {
	models.User
	hash []byte
}

type window struct {
	openAt  int64
	closeAt int64
}

// state is the service's whole dataset. Times are unix seconds, as on the
// wire.
type state struct {
	mu sync.Mutex

	users     map[string]*user
	topics    []models.Topic
	sessions  map[int64]window
	votes     map[int64]map[string]models.Choice
	lastUser  int64
	lastTopic int64
}

func newState() *state {
	return &state{
		users:    make(map[string]*user),
		sessions: make(map[int64]window),
		votes:    make(map[int64]map[string]models.Choice),
	}
}

func (s *state) register(name, cpf, password string) (models.User, error) {
	if strings.TrimSpace(name) == "" || cpf == "" || password == "" {
		return models.User{}, errRequiredFields
	}
	if len(cpf) != 11 {
		return models.User{}, errInvalidCPF
	}
	if len(password) < 6 {
		return models.User{}, errShortPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[cpf]; ok {
		return models.User{}, errUserExists
	}
	s.lastUser++
	u := &user{User: models.User{ID: s.lastUser, Name: name, CPF: cpf}, hash: hash}
	s.users[cpf] = u
	return u.User, nil
}

func (s *state) authenticate(cpf, password string) (models.User, error) {
	s.mu.Lock()
	u, ok := s.users[cpf]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
		return models.User{}, errBadCredentials
	}
	return u.User, nil
}

func (s *state) createTopic(name string) (models.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Topic{}, errEmptyTopicName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastTopic++
	t := models.Topic{ID: s.lastTopic, Name: name}
	s.topics = append(s.topics, t)
	return t, nil
}

// listTopics reports each topic with the status derived from its session
// window at now.
func (s *state) listTopics(now time.Time) []models.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Topic, len(s.topics))
	for i, t := range s.topics {
		t.Status = s.statusLocked(t.ID, now.Unix())
		out[i] = t
	}
	return out
}

func (s *state) statusLocked(topicID, now int64) models.Status {
	w, ok := s.sessions[topicID]
	switch {
	case !ok || now < w.openAt:
		return models.StatusAwaitingOpening
	case now > w.closeAt:
		return models.StatusClosed
	default:
		return models.StatusOpen
	}
}

func (s *state) hasTopicLocked(topicID int64) bool {
	for _, t := range s.topics {
		if t.ID == topicID {
			return true
		}
	}
	return false
}

// openSession starts a window of minutes at now. Non-positive durations
// become one minute. A window that is still running cannot be replaced.
func (s *state) openSession(topicID int64, minutes int, now time.Time) (window, error) {
	if minutes <= 0 {
		minutes = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasTopicLocked(topicID) {
		return window{}, errTopicNotFound
	}
	if s.statusLocked(topicID, now.Unix()) == models.StatusOpen {
		return window{}, errSessionOpen
	}

	w := window{openAt: now.Unix(), closeAt: now.Unix() + int64(minutes)*60}
	s.sessions[topicID] = w
	delete(s.votes, topicID)
	return w, nil
}

func (s *state) session(topicID int64) (window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.sessions[topicID]
	if !ok {
		return window{}, errSessionNotFound
	}
	return w, nil
}

func (s *state) vote(topicID int64, cpf string, choice models.Choice, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.sessions[topicID]
	if !ok {
		return errSessionNotFound
	}
	if n := now.Unix(); n < w.openAt || n > w.closeAt {
		return errSessionNotOpen
	}

	ballots := s.votes[topicID]
	if ballots == nil {
		ballots = make(map[string]models.Choice)
		s.votes[topicID] = ballots
	}
	if _, voted := ballots[cpf]; voted {
		return errAlreadyVoted
	}
	ballots[cpf] = choice
	return nil
}

func (s *state) result(topicID int64, now time.Time) (models.VoteTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.sessions[topicID]
	if !ok {
		return models.VoteTally{}, errSessionNotFound
	}
	// Ballots are accepted through closeAt inclusive, so the tally is final
	// only after it.
	if now.Unix() <= w.closeAt {
		return models.VoteTally{}, errSessionStillOpen
	}

	t := models.VoteTally{TopicID: topicID}
	for _, c := range s.votes[topicID] {
		switch c {
		case models.ChoiceYes:
			t.Sim++
		case models.ChoiceNo:
			t.Nao++
		}
	}
	return t, nil
}
