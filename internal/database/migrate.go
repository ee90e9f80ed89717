package database

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"yatube/internal/middleware"
)

// Migration is one embedded up/down SQL pair, named NNNNNN_name.{up,down}.sql.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

func (m *Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrations []Migration

func init() {
	list, err := LoadMigrations(migrationFS, "migrations")
	if err != nil {
		middleware.Logger.Error("failed to load embedded migrations", slog.String("error", err.Error()))
		return
	}
	migrations = list
}

// LoadMigrations reads every *.up.sql file in dir of fsys with its matching
// *.down.sql and returns them ordered by version.
func LoadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	ups, err := fs.Glob(fsys, dir+"/*.up.sql")
	if err != nil {
		return nil, err
	}

	list := make([]Migration, 0, len(ups))
	for _, upPath := range ups {
		base := strings.TrimSuffix(upPath[len(dir)+1:], ".up.sql")
		version, name, err := parseMigrationName(base)
		if err != nil {
			return nil, err
		}

		up, err := fs.ReadFile(fsys, upPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", upPath, err)
		}
		down, err := fs.ReadFile(fsys, dir+"/"+base+".down.sql")
		if err != nil {
			return nil, fmt.Errorf("migration %s has no down script: %w", base, err)
		}

		list = append(list, Migration{
			Version:    version,
			Name:       name,
			UpScript:   string(up),
			DownScript: string(down),
		})
	}

	slices.SortFunc(list, func(a, b Migration) int { return a.Version - b.Version })
	for i := 1; i < len(list); i++ {
		if list[i].Version == list[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %06d", list[i].Version)
		}
	}
	return list, nil
}

// parseMigrationName splits "000001_init" into 1 and "init".
func parseMigrationName(base string) (int, string, error) {
	num, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("migration %q is not named NNNNNN_name", base)
	}
	version, err := strconv.Atoi(num)
	if err != nil || version <= 0 {
		return 0, "", fmt.Errorf("migration %q has an invalid version", base)
	}
	return version, name, nil
}

// GetMigrations returns the registered migrations ordered by version.
func GetMigrations() []Migration {
	return migrations
}

// GetMigrationByVersion returns the migration with the given version, or nil.
func GetMigrationByVersion(version int) *Migration {
	i := slices.IndexFunc(migrations, func(m Migration) bool { return m.Version == version })
	if i < 0 {
		return nil
	}
	m := migrations[i]
	return &m
}
