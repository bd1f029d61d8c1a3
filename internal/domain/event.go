package domain

import (
	"context"
	"time"
)

// EventMode is how attendees take part in an event.
type EventMode string

const (
	ModeOnline  EventMode = "online"
	ModeOffline EventMode = "offline"
	ModeHybrid  EventMode = "hybrid"
)

// EventModes lists the accepted modes in display order.
var EventModes = []EventMode{ModeOnline, ModeOffline, ModeHybrid}

// Valid reports whether m is one of EventModes.
func (m EventMode) Valid() bool {
	for _, v := range EventModes {
		if m == v {
			return true
		}
	}
	return false
}

// Event represents a catalog entry that can be booked.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Overview    string    `json:"overview"`
	Image       string    `json:"image"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Mode        EventMode `json:"mode"`
	Audience    string    `json:"audience"`
	Agenda      []string  `json:"agenda"`
	Organizer   string    `json:"organizer"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventInput is a candidate event as submitted by the content process.
// Slug, id and timestamps are never accepted from callers.
type EventInput struct {
	Title       string
	Description string
	Overview    string
	Image       string
	Venue       string
	Location    string
	Date        string
	Time        string
	Mode        string
	Audience    string
	Agenda      []string
	Organizer   string
	Tags        []string
}

// EventRepository defines the interface for event storage.
// Create and Update assign ID and timestamps on the passed event.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	// ListByTags returns events sharing at least one tag, excluding excludeID, newest first.
	ListByTags(ctx context.Context, tags []string, excludeID string, limit int) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for the event catalog.
type EventService interface {
	CreateEvent(ctx context.Context, in EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, slug string, in EventInput) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	ListSimilarEvents(ctx context.Context, slug string) ([]*Event, error)
	DeleteEvent(ctx context.Context, slug string) error
}
