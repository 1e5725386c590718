package service

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aidar/wfm-roster/internal/domain"
)

// Fixtures is the seed data file layout.
type Fixtures struct {
	Teams     []domain.Team          `yaml:"teams"`
	Employees []*domain.Employee     `yaml:"employees"`
	Tags      []domain.TagDefinition `yaml:"tags"`
}

// LoadFixtures decodes seed data from YAML.
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	for i, emp := range fx.Employees {
		if emp == nil || emp.ID == "" || emp.EmployeeID == "" {
			return nil, fmt.Errorf("fixture employee #%d: id and employeeId are required", i+1)
		}
		if !emp.Status.IsValid() {
			return nil, fmt.Errorf("fixture employee %s: %w", emp.ID, domain.ErrInvalidStatus)
		}
	}
	return &fx, nil
}

// LoadFixturesFile reads seed data from a YAML file.
func LoadFixturesFile(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return LoadFixtures(f)
}

// SeedRoster adds fixture records that are not in the roster yet. Existing
// employees and tags are left untouched, so seeding twice is harmless.
func SeedRoster(ctx context.Context, store *Store, fx *Fixtures) (int, error) {
	var added int
	_, err := store.Update(ctx, func(snap *Snapshot) (*Change, error) {
		change := &Change{Kind: domain.EventCreated, Teams: fx.Teams}
		for _, emp := range fx.Employees {
			if _, ok := snap.Employee(emp.ID); ok {
				continue
			}
			change.Employees = append(change.Employees, emp.Clone())
		}
		for _, tag := range fx.Tags {
			if _, ok := snap.TagDefinition(tag.Name); ok {
				continue
			}
			if tag.Color == "" {
				tag.Color = domain.ColorForTag(tag.Name)
			}
			change.CreatedTags = append(change.CreatedTags, tag)
		}
		added = len(change.Employees)
		return change, nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed roster: %w", err)
	}
	return added, nil
}
