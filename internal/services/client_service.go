package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/store"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrPhoneRequired   = errors.New("phone is required")
	ErrAddressRequired = errors.New("address is required")
)

type ClientService struct {
	store *store.Store
}

func NewClientService(s *store.Store) *ClientService {
	return &ClientService{store: s}
}

type ClientInput struct {
	Name          string
	Email         string
	Phone         string
	Address       string
	ContactPerson string
	IsActive      *bool
}

type UpdateClientInput struct {
	Name          *string
	Email         *string
	Phone         *string
	Address       *string
	ContactPerson *string
	IsActive      *bool
}

// ListClients returns clients sorted by name. activeOnly drops inactive ones.
func (s *ClientService) ListClients(activeOnly bool) []models.Client {
	clients := s.store.Clients()
	if activeOnly {
		kept := clients[:0]
		for _, c := range clients {
			if c.IsActive {
				kept = append(kept, c)
			}
		}
		clients = kept
	}
	sort.SliceStable(clients, func(i, j int) bool {
		return strings.ToLower(clients[i].Name) < strings.ToLower(clients[j].Name)
	})
	return clients
}

func (s *ClientService) GetClient(id string) (*models.Client, error) {
	client, ok := s.store.Client(id)
	if !ok {
		return nil, ErrClientNotFound
	}
	return &client, nil
}

func (s *ClientService) CreateClient(input ClientInput) (*models.Client, error) {
	client := models.Client{
		Name:          strings.TrimSpace(input.Name),
		Email:         strings.TrimSpace(input.Email),
		Phone:         strings.TrimSpace(input.Phone),
		Address:       strings.TrimSpace(input.Address),
		ContactPerson: strings.TrimSpace(input.ContactPerson),
		IsActive:      true,
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}
	if err := validateClient(client); err != nil {
		return nil, err
	}

	created, err := s.store.AddClient(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &created, nil
}

func (s *ClientService) UpdateClient(id string, input UpdateClientInput) (*models.Client, error) {
	current, ok := s.store.Client(id)
	if !ok {
		return nil, ErrClientNotFound
	}

	patch := models.ClientPatch{
		Name:          trimmed(input.Name),
		Email:         trimmed(input.Email),
		Phone:         trimmed(input.Phone),
		Address:       trimmed(input.Address),
		ContactPerson: trimmed(input.ContactPerson),
		IsActive:      input.IsActive,
	}

	// Validate the merged record so no partial write can break required fields.
	merged := current
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Email != nil {
		merged.Email = *patch.Email
	}
	if patch.Phone != nil {
		merged.Phone = *patch.Phone
	}
	if patch.Address != nil {
		merged.Address = *patch.Address
	}
	if err := validateClient(merged); err != nil {
		return nil, err
	}

	if err := s.store.UpdateClient(id, patch); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return s.GetClient(id)
}

func (s *ClientService) DeleteClient(id string) error {
	if _, ok := s.store.Client(id); !ok {
		return ErrClientNotFound
	}
	if err := s.store.DeleteClient(id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

func validateClient(c models.Client) error {
	switch {
	case c.Name == "":
		return ErrNameRequired
	case c.Email == "":
		return ErrEmailRequired
	case c.Phone == "":
		return ErrPhoneRequired
	case c.Address == "":
		return ErrAddressRequired
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
