package service

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aidar/wfm-roster/internal/domain"
)

var tagColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// TagEntry is one catalog row.
type TagEntry struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	// Custom is true for tags created explicitly rather than derived from employees.
	Custom bool `json:"custom"`
	// Employees is the number of employees holding the tag.
	Employees int `json:"employees"`
}

// TagService manages the tag catalog and tag assignment.
type TagService struct {
	store *Store
	clock Clock
}

// NewTagService creates a new TagService
func NewTagService(store *Store, clock Clock) *TagService {
	return &TagService{store: store, clock: clock}
}

// Catalog returns created tags plus tags present on employees, ordered by name.
func (s *TagService) Catalog() []TagEntry {
	return catalogOf(s.store.Snapshot())
}

func catalogOf(snap *Snapshot) []TagEntry {
	entries := make(map[string]*TagEntry)
	for _, def := range snap.Tags {
		entries[def.Name] = &TagEntry{Name: def.Name, Color: def.Color, Custom: true}
	}
	for _, emp := range snap.Employees {
		for _, tag := range emp.Tags {
			entry, ok := entries[tag]
			if !ok {
				entry = &TagEntry{Name: tag, Color: domain.ColorForTag(tag)}
				entries[tag] = entry
			}
			entry.Employees++
		}
	}

	out := make([]TagEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, *entry)
	}
	coll := collate.New(language.Russian)
	slices.SortFunc(out, func(a, b TagEntry) int {
		if c := coll.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func catalogHas(snap *Snapshot, name string) bool {
	if _, ok := snap.TagDefinition(name); ok {
		return true
	}
	for _, emp := range snap.Employees {
		if emp.HasTag(name) {
			return true
		}
	}
	return false
}

// CreateTag adds a tag definition. An empty color selects the first palette color.
func (s *TagService) CreateTag(ctx context.Context, name, color string) (domain.TagDefinition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.TagDefinition{}, domain.ErrTagNameRequired
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = domain.TagPalette[0]
	}
	if !tagColorPattern.MatchString(color) {
		return domain.TagDefinition{}, domain.ErrInvalidTagColor
	}

	def := domain.TagDefinition{Name: name, Color: strings.ToLower(color), CreatedAt: s.clock.Now().UTC()}
	_, err := s.store.Update(ctx, func(snap *Snapshot) (*Change, error) {
		if catalogHas(snap, name) {
			return nil, domain.ErrTagExists
		}
		return &Change{CreatedTags: []domain.TagDefinition{def}}, nil
	})
	if err != nil {
		return domain.TagDefinition{}, err
	}
	return def, nil
}

// ApplyTags removes the remove-set and then adds the add-set on every employee in ids.
func (s *TagService) ApplyTags(ctx context.Context, operator string, ids, add, remove []string) (int, error) {
	if len(ids) == 0 {
		return 0, domain.ErrEmptySelection
	}
	add = normalizeTags(add)
	remove = normalizeTags(remove)
	if len(add) == 0 && len(remove) == 0 {
		return 0, domain.ErrEmptyTagChange
	}

	var updated int
	_, err := s.store.Update(ctx, func(snap *Snapshot) (*Change, error) {
		now := s.clock.Now()
		change := &Change{Kind: domain.EventTagsChanged}
		for _, id := range ids {
			existing, ok := snap.Employee(id)
			if !ok {
				continue
			}
			emp := existing.Clone()
			emp.Tags = slices.DeleteFunc(emp.Tags, func(tag string) bool {
				return slices.Contains(remove, tag)
			})
			for _, tag := range add {
				if !slices.Contains(emp.Tags, tag) {
					emp.Tags = append(emp.Tags, tag)
				}
			}
			emp.Touch(now, operator)
			change.Employees = append(change.Employees, emp)
		}
		updated = len(change.Employees)
		return change, nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// DeleteTag removes the tag definition and strips the tag from every employee
// holding it. Returns the number of employees changed.
func (s *TagService) DeleteTag(ctx context.Context, operator, name string) (int, error) {
	var stripped int
	_, err := s.store.Update(ctx, func(snap *Snapshot) (*Change, error) {
		if !catalogHas(snap, name) {
			return nil, domain.ErrTagNotFound
		}

		now := s.clock.Now()
		change := &Change{Kind: domain.EventTagDeleted}
		if _, ok := snap.TagDefinition(name); ok {
			change.DeletedTags = []string{name}
		}
		for _, existing := range snap.Employees {
			if !existing.HasTag(name) {
				continue
			}
			emp := existing.Clone()
			emp.Tags = slices.DeleteFunc(emp.Tags, func(tag string) bool { return tag == name })
			emp.Touch(now, operator)
			change.Employees = append(change.Employees, emp)
		}
		stripped = len(change.Employees)
		return change, nil
	})
	if err != nil {
		return 0, err
	}
	return stripped, nil
}

// CommonTags returns tags held by every employee in ids, in the first employee's order.
func (s *TagService) CommonTags(ids []string) []string {
	snap := s.store.Snapshot()

	var selected []*domain.Employee
	for _, emp := range snap.Employees {
		if slices.Contains(ids, emp.ID) {
			selected = append(selected, emp)
		}
	}
	if len(selected) == 0 {
		return []string{}
	}

	common := []string{}
	for _, tag := range selected[0].Tags {
		shared := true
		for _, emp := range selected[1:] {
			if !emp.HasTag(tag) {
				shared = false
				break
			}
		}
		if shared {
			common = append(common, tag)
		}
	}
	return common
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}
