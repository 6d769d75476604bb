// Package store holds the canonical in-memory collections of the back office
// and mirrors every mutation into a durable key-value repository.
//
// A Store is constructed once at startup and shared by reference. All
// operations are serialized by an internal lock, so concurrent callers see
// the same single-writer behaviour as one UI event loop.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/notify"
	"github.com/yukikurage/officedesk/internal/repository"
	"github.com/yukikurage/officedesk/internal/utils"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrMilestoneNotFound = errors.New("milestone not found on this task type")
)

type Store struct {
	mu    sync.RWMutex
	repo  repository.KeyValueRepository
	log   logrus.FieldLogger
	gen   *notify.Generator
	now   func() time.Time
	newID func() string

	users         []models.User
	clients       []models.Client
	taskTypes     []models.TaskType
	tasks         []models.Task
	notifications []models.Notification
}

type Option func(*Store)

// WithClock replaces time.Now for timestamps and overdue checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the record id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New builds a Store and loads every collection from repo. Slots that are
// missing or cannot be decoded start empty.
func New(repo repository.KeyValueRepository, log logrus.FieldLogger, opts ...Option) *Store {
	s := &Store{
		repo:  repo,
		log:   log,
		now:   time.Now,
		newID: utils.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.gen = &notify.Generator{NewID: s.newID, Now: s.now}

	s.users = loadSlot[models.User](s, constants.StorageKeyUsers)
	s.clients = loadSlot[models.Client](s, constants.StorageKeyClients)
	s.taskTypes = loadSlot[models.TaskType](s, constants.StorageKeyTaskTypes)
	s.tasks = loadSlot[models.Task](s, constants.StorageKeyTasks)
	s.notifications = loadSlot[models.Notification](s, constants.StorageKeyNotifications)

	s.log.WithFields(logrus.Fields{
		"users":         len(s.users),
		"clients":       len(s.clients),
		"taskTypes":     len(s.taskTypes),
		"tasks":         len(s.tasks),
		"notifications": len(s.notifications),
	}).Info("Record store loaded")

	return s
}

// Now exposes the store clock so callers stamp times consistently.
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) activity(actor models.User, action string) models.ActivityEntry {
	name := actor.Name
	if name == "" {
		name = constants.UnknownUserName
	}
	return models.ActivityEntry{
		ID:        s.newID(),
		UserID:    actor.ID,
		UserName:  name,
		Action:    action,
		Timestamp: s.now(),
	}
}

func (s *Store) userName(id string) string {
	return notify.DisplayName(s.users, id)
}
