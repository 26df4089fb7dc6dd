package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"vibe-brain/internal/domain"
)

// Fixtures agrupa los datos fijos del servicio: el perfil de referencia para los
// matches, los títulos de respaldo de YouTube y los placeholders del radar.
type Fixtures struct {
	Reference       domain.Profile       `koanf:"reference"`
	BackupLikes     []string             `koanf:"backup_likes"`
	BackupPlaylists []string             `koanf:"backup_playlists"`
	Placeholders    []domain.RosterEntry `koanf:"placeholders"`
}

// DefaultFixtures devuelve los valores compilados que se usan si no hay archivo.
func DefaultFixtures() Fixtures {
	return Fixtures{
		Reference: domain.Profile{
			Identity:       "sarah_scifi",
			ActivityDigest: "Recent Repos: nasa/astropy, spacex/api",
			LikedTitles: []string{
				"Interstellar Docking Scene",
				"SpaceX Starship Launch",
				"Cosmos: A Spacetime Odyssey",
			},
			PlaylistTitles: []string{"Lo-Fi Space Ambience", "Futurism Talks"},
			Soul:           "An optimistic futurist with her eyes on the stars and code in the cloud.",
		},
		BackupLikes: []string{
			"Lo-Fi Beats to Code To",
			"How Git Works Under the Hood",
			"Late Night Debugging Stories",
		},
		BackupPlaylists: []string{"Focus Mix", "Watch Later"},
		Placeholders: []domain.RosterEntry{
			{Identity: "ghost_coder", Soul: "Commits at 3am and leaves no trace but green squares."},
			{Identity: "system_admin", Soul: "Keeps the servers alive on coffee and quiet rage."},
		},
	}
}

// LoadFixtures parte de los valores por defecto y, si path no está vacío, pisa
// los campos presentes en el YAML.
func LoadFixtures(path string) (Fixtures, error) {
	fx := DefaultFixtures()
	if strings.TrimSpace(path) == "" {
		return fx, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Fixtures{}, fmt.Errorf("load fixtures %s: %w", path, err)
	}

	var loaded Fixtures
	if err := k.Unmarshal("", &loaded); err != nil {
		return Fixtures{}, fmt.Errorf("unmarshal fixtures: %w", err)
	}

	fx.Reference = mergeProfile(fx.Reference, loaded.Reference)
	if len(loaded.BackupLikes) > 0 {
		fx.BackupLikes = loaded.BackupLikes
	}
	if len(loaded.BackupPlaylists) > 0 {
		fx.BackupPlaylists = loaded.BackupPlaylists
	}
	if len(loaded.Placeholders) > 0 {
		fx.Placeholders = loaded.Placeholders
	}
	return fx, nil
}

func mergeProfile(base, override domain.Profile) domain.Profile {
	if v := strings.TrimSpace(override.Identity); v != "" {
		base.Identity = v
	}
	if v := strings.TrimSpace(override.ActivityDigest); v != "" {
		base.ActivityDigest = v
	}
	if len(override.LikedTitles) > 0 {
		base.LikedTitles = override.LikedTitles
	}
	if len(override.PlaylistTitles) > 0 {
		base.PlaylistTitles = override.PlaylistTitles
	}
	if v := strings.TrimSpace(override.Soul); v != "" {
		base.Soul = v
	}
	return base
}
