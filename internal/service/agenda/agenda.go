package agenda

import (
	"context"
	"errors"
)

var (
	ErrNotAvailable     = errors.New("agenda not available yet")
	ErrUnknownPresenter = errors.New("session references unknown presenter")
)

type Session struct {
	ID         string      `json:"Id"`
	Title      string      `json:"Title"`
	Abstract   string      `json:"Abstract"`
	Format     string      `json:"Format"`
	Level      string      `json:"Level"`
	Tags       []string    `json:"Tags"`
	Presenters []Presenter `json:"Presenters"`
}

type Presenter struct {
	ID              string `json:"Id"`
	Name            string `json:"Name"`
	Tagline         string `json:"Tagline"`
	Bio             string `json:"Bio"`
	ProfilePhotoURL string `json:"ProfilePhotoUrl"`
	TwitterHandle   string `json:"TwitterHandle"`
	WebsiteURL      string `json:"WebsiteUrl"`
}

type Service interface {
	// GetAgenda returns ErrNotAvailable until the agenda has been published.
	GetAgenda(ctx context.Context) ([]Session, error)
}
