package models

import (
	"sort"
	"time"
)

// Milestone is a step of a TaskType. Order drives display sequence.
type Milestone struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Order          int     `json:"order"`
	EstimatedHours float64 `json:"estimatedHours"`
	IsRequired     bool    `json:"isRequired"`
}

type TaskType struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Category       string      `json:"category"`
	EstimatedHours float64     `json:"estimatedHours"`
	IsActive       bool        `json:"isActive"`
	Milestones     []Milestone `json:"milestones"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// SortedMilestones returns the milestones ordered by Order, then name.
func (t TaskType) SortedMilestones() []Milestone {
	out := make([]Milestone, len(t.Milestones))
	copy(out, t.Milestones)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// HasMilestone reports whether id is one of the type's milestones.
func (t TaskType) HasMilestone(id string) bool {
	for _, m := range t.Milestones {
		if m.ID == id {
			return true
		}
	}
	return false
}

type TaskTypePatch struct {
	Name           *string
	Description    *string
	Category       *string
	EstimatedHours *float64
	IsActive       *bool
	Milestones     *[]Milestone
}
