package models

import "time"

type Client struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ClientPatch struct {
	Name          *string
	Email         *string
	Phone         *string
	Address       *string
	ContactPerson *string
	IsActive      *bool
}
