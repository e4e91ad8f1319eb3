package jsonfile

import (
	"time"

	"github.com/dmaloney/flatnote/internal/model"
	"github.com/dmaloney/flatnote/internal/store"
)

const usersFile = "users.json"

type UserStore struct {
	col *collection[model.User]
}

func NewUserStore(dataDir string) *UserStore {
	return &UserStore{col: newCollection[model.User](dataDir, usersFile)}
}

func (s *UserStore) Create(username, passwordHash string) (*model.User, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	users, err := s.col.load()
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Username == username {
			return nil, store.ErrUsernameTaken
		}
	}

	now := time.Now().UTC()
	user := model.User{
		ID:        store.NewUserID(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	users = append(users, user)

	if err := s.col.save(users); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetByUsername(username string) (*model.User, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	users, err := s.col.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (s *UserStore) GetByID(id string) (*model.User, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	users, err := s.col.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}
