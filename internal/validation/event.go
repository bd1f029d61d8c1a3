package validation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"devevent/internal/domain"
)

// maxSlugLookups bounds how many candidate slugs are checked before giving up.
const maxSlugLookups = 3

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*([AaPp][Mm]))?$`)

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// SlugLookup is the store read the event validator needs.
type SlugLookup interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Event, error)
}

// EventValidator validates and normalizes events before they are persisted
// and derives their unique slug.
type EventValidator struct {
	events SlugLookup
	tokens SlugTokenSource
}

func NewEventValidator(events SlugLookup, tokens SlugTokenSource) *EventValidator {
	if tokens == nil {
		tokens = NewTimeTokenSource()
	}
	return &EventValidator{events: events, tokens: tokens}
}

// Prepare returns a normalized event with a unique slug, ready for the store.
// ID and timestamps are left for the store to assign.
func (v *EventValidator) Prepare(ctx context.Context, in domain.EventInput) (*domain.Event, error) {
	e, err := normalizeEvent(in)
	if err != nil {
		return nil, err
	}
	e.Slug, err = v.UniqueSlug(ctx, e.Title, "", false)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// PrepareUpdate validates in as the new state of current. The slug is only
// re-derived when the title produces a different base slug.
func (v *EventValidator) PrepareUpdate(ctx context.Context, current *domain.Event, in domain.EventInput) (*domain.Event, error) {
	e, err := normalizeEvent(in)
	if err != nil {
		return nil, err
	}
	e.ID = current.ID
	e.CreatedAt = current.CreatedAt
	e.UpdatedAt = current.UpdatedAt

	if domain.Slugify(e.Title) == domain.Slugify(current.Title) {
		e.Slug = current.Slug
		return e, nil
	}
	e.Slug, err = v.UniqueSlug(ctx, e.Title, current.ID, false)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UniqueSlug derives the slug for title and disambiguates it against the
// store. A record whose ID equals selfID does not count as a collision. With
// fresh set, the base slug is skipped and a tokenized candidate is tried first;
// callers use this after the store rejected a write on the unique index.
func (v *EventValidator) UniqueSlug(ctx context.Context, title, selfID string, fresh bool) (string, error) {
	base := domain.Slugify(title)
	candidate := base
	if fresh {
		candidate = v.withToken(base)
	}
	for i := 0; i < maxSlugLookups; i++ {
		existing, err := v.events.GetBySlug(ctx, candidate)
		if errors.Is(err, domain.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("lookup slug: %w", err)
		}
		if selfID != "" && existing.ID == selfID {
			return candidate, nil
		}
		candidate = v.withToken(base)
	}
	return "", domain.UniqueViolation("slug")
}

func (v *EventValidator) withToken(base string) string {
	token := v.tokens.Next()
	if base == "" {
		return token
	}
	return base + "-" + token
}

func normalizeEvent(in domain.EventInput) (*domain.Event, error) {
	e := &domain.Event{}
	var err error

	fields := []struct {
		name string
		src  string
		dst  *string
	}{
		{"title", in.Title, &e.Title},
		{"description", in.Description, &e.Description},
		{"overview", in.Overview, &e.Overview},
		{"image", in.Image, &e.Image},
		{"venue", in.Venue, &e.Venue},
		{"location", in.Location, &e.Location},
	}
	for _, f := range fields {
		if *f.dst, err = requireString(f.name, f.src); err != nil {
			return nil, err
		}
	}

	if e.Date, err = normalizeDate(in.Date); err != nil {
		return nil, err
	}
	if e.Time, err = normalizeTime(in.Time); err != nil {
		return nil, err
	}
	if e.Mode, err = normalizeMode(in.Mode); err != nil {
		return nil, err
	}
	if e.Audience, err = requireString("audience", in.Audience); err != nil {
		return nil, err
	}
	if e.Agenda, err = requireList("agenda", in.Agenda, false); err != nil {
		return nil, err
	}
	if e.Organizer, err = requireString("organizer", in.Organizer); err != nil {
		return nil, err
	}
	if e.Tags, err = requireList("tags", in.Tags, true); err != nil {
		return nil, err
	}
	return e, nil
}

func requireString(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", domain.MissingField(field)
	}
	return v, nil
}

// requireList trims items and drops blank ones. With dedupe, later duplicates
// are dropped and first-seen order is kept.
func requireList(field string, items []string, dedupe bool) ([]string, error) {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if dedupe {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil, domain.EmptyCollection(field)
	}
	return out, nil
}

func normalizeDate(value string) (string, error) {
	v, err := requireString("date", value)
	if err != nil {
		return "", err
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC().Format("2006-01-02"), nil
		}
	}
	return "", domain.InvalidFormat("date")
}

// normalizeTime accepts H:MM or HH:MM with an optional AM/PM suffix and
// returns zero-padded 24-hour HH:MM. With a suffix the hour must be 1-12.
func normalizeTime(value string) (string, error) {
	v, err := requireString("time", value)
	if err != nil {
		return "", err
	}
	m := clockPattern.FindStringSubmatch(v)
	if m == nil {
		return "", domain.InvalidFormat("time")
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if m[3] != "" && (hours < 1 || hours > 12) {
		return "", domain.InvalidFormat("time")
	}
	switch strings.ToUpper(m[3]) {
	case "PM":
		if hours != 12 {
			hours += 12
		}
	case "AM":
		if hours == 12 {
			hours = 0
		}
	}
	if hours > 23 || minutes > 59 {
		return "", domain.InvalidFormat("time")
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes), nil
}

func normalizeMode(value string) (domain.EventMode, error) {
	v, err := requireString("mode", value)
	if err != nil {
		return "", err
	}
	mode := domain.EventMode(strings.ToLower(v))
	if !mode.Valid() {
		allowed := make([]string, len(domain.EventModes))
		for i, m := range domain.EventModes {
			allowed[i] = string(m)
		}
		return "", domain.InvalidEnum("mode", allowed...)
	}
	return mode, nil
}
