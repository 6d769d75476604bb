package store

import (
	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/models"
)

func (s *Store) AddClient(client models.Client) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client.ID = s.newID()
	client.CreatedAt = s.now()

	s.clients = append(s.clients, client)
	return client, s.persist(constants.StorageKeyClients, s.clients)
}

func (s *Store) UpdateClient(id string, patch models.ClientPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.clientIndex(id)
	if i < 0 {
		return nil
	}
	c := &s.clients[i]

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.Address != nil {
		c.Address = *patch.Address
	}
	if patch.ContactPerson != nil {
		c.ContactPerson = *patch.ContactPerson
	}
	if patch.IsActive != nil {
		c.IsActive = *patch.IsActive
	}

	return s.persist(constants.StorageKeyClients, s.clients)
}

func (s *Store) DeleteClient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients = filter(s.clients, func(c models.Client) bool { return c.ID != id })
	return s.persist(constants.StorageKeyClients, s.clients)
}

func (s *Store) Clients() []models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.clients)
}

func (s *Store) Client(id string) (models.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.clientIndex(id); i >= 0 {
		return s.clients[i], true
	}
	return models.Client{}, false
}

func (s *Store) clientIndex(id string) int {
	for i := range s.clients {
		if s.clients[i].ID == id {
			return i
		}
	}
	return -1
}
