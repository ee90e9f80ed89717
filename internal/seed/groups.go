package seed

import (
	_ "embed"
	"fmt"
	"strings"

	"yatube/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed groups.yaml
var defaultGroupsYAML []byte

// GroupFixture is one entry of the groups fixture file.
type GroupFixture struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

type groupFile struct {
	Groups []GroupFixture `yaml:"groups"`
}

// DefaultGroups returns the embedded group fixture.
func DefaultGroups() ([]GroupFixture, error) {
	return ParseGroups(defaultGroupsYAML)
}

// ParseGroups decodes a groups fixture. Every entry needs a title and a
// unique slug.
func ParseGroups(data []byte) ([]GroupFixture, error) {
	var f groupFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse groups fixture: %w", err)
	}

	seen := make(map[string]bool, len(f.Groups))
	for i, g := range f.Groups {
		g.Title = strings.TrimSpace(g.Title)
		g.Slug = strings.TrimSpace(g.Slug)
		if g.Title == "" || g.Slug == "" {
			return nil, fmt.Errorf("groups fixture entry %d: title and slug are required", i)
		}
		if seen[g.Slug] {
			return nil, fmt.Errorf("groups fixture entry %d: duplicate slug %q", i, g.Slug)
		}
		seen[g.Slug] = true
		f.Groups[i] = g
	}
	return f.Groups, nil
}

// Groups upserts the fixtures by slug and returns the stored rows.
func Groups(db *gorm.DB, fixtures []GroupFixture) ([]models.Group, error) {
	groups := make([]models.Group, 0, len(fixtures))
	for _, item := range fixtures {
		group := models.Group{
			Title:       item.Title,
			Slug:        item.Slug,
			Description: item.Description,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
		}).Create(&group).Error; err != nil {
			return nil, fmt.Errorf("seed group %s: %w", item.Slug, err)
		}

		// The id reported for an updated row is driver dependent.
		var stored models.Group
		if err := db.Where("slug = ?", item.Slug).First(&stored).Error; err != nil {
			return nil, fmt.Errorf("reload group %s: %w", item.Slug, err)
		}
		groups = append(groups, stored)
	}
	return groups, nil
}
