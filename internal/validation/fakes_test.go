package validation

import (
	"context"

	"devevent/internal/domain"
)

type fakeEventStore struct {
	bySlug      map[string]*domain.Event
	byID        map[string]*domain.Event
	err         error
	slugLookups []string
	idLookups   []string
}

func newFakeEventStore(events ...*domain.Event) *fakeEventStore {
	s := &fakeEventStore{
		bySlug: make(map[string]*domain.Event),
		byID:   make(map[string]*domain.Event),
	}
	for _, e := range events {
		s.bySlug[e.Slug] = e
		s.byID[e.ID] = e
	}
	return s
}

func (s *fakeEventStore) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	s.slugLookups = append(s.slugLookups, slug)
	if s.err != nil {
		return nil, s.err
	}
	e, ok := s.bySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (s *fakeEventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	s.idLookups = append(s.idLookups, id)
	if s.err != nil {
		return nil, s.err
	}
	e, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func validEventInput() domain.EventInput {
	return domain.EventInput{
		Title:       "AWS re:Invent 2025",
		Description: "The largest cloud conference.",
		Overview:    "Keynotes, workshops and labs.",
		Image:       "/images/event1.png",
		Venue:       "The Venetian",
		Location:    "Las Vegas, NV",
		Date:        "2025-12-01",
		Time:        "09:00",
		Mode:        "offline",
		Audience:    "Cloud engineers",
		Agenda:      []string{"Keynote", "Workshops"},
		Organizer:   "Amazon Web Services",
		Tags:        []string{"cloud", "aws"},
	}
}
