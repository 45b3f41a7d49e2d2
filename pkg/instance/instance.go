// Package instance describes game installations as far as mod search needs
// them: which loader and game version to filter by.
package instance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/macropower/mdpkm/pkg/platform"
)

var (
	ErrNotFound = errors.New("instance not found")
	ErrInvalid  = errors.New("invalid instance")
)

// Component is a versioned part of an instance, such as its mod loader.
type Component struct {
	// ID is the component identifier, e.g. "fabric" or "quilt".
	ID string `json:"id" jsonschema:"title=ID,minLength=1"`
	// Version is the game version the component targets, e.g. "1.20.1".
	Version string `json:"version" jsonschema:"title=Version,minLength=1"`
}

// Instance is a configured game installation.
type Instance struct {
	// ID uniquely identifies the instance.
	ID string `json:"id" jsonschema:"title=ID,minLength=1"`
	// Name is the display name.
	Name string `json:"name,omitempty" jsonschema:"title=Name"`
	// Path is the instance directory.
	Path string `json:"path,omitempty" jsonschema:"title=Path"`
	// Game is the loader component used to filter searches.
	Game Component `json:"game" jsonschema:"title=Game Component"`
}

// Loaders returns the loader filter for searches.
func (i Instance) Loaders() []string {
	if i.Game.ID == "" {
		return nil
	}

	return []string{i.Game.ID}
}

// Versions returns the game version filter for searches.
func (i Instance) Versions() []string {
	return platform.VersionFilters(i.Game.Version)
}

// DisplayName returns Name, falling back to ID.
func (i Instance) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}

	return i.ID
}

func (i Instance) String() string {
	return fmt.Sprintf("%s (%s %s)", i.DisplayName(), i.Game.ID, i.Game.Version)
}

func (i Instance) Validate() error {
	var missing []string
	if i.ID == "" {
		missing = append(missing, "id")
	}
	if i.Game.ID == "" {
		missing = append(missing, "game.id")
	}
	if i.Game.Version == "" {
		missing = append(missing, "game.version")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w %q: missing %s", ErrInvalid, i.ID, strings.Join(missing, ", "))
	}

	return nil
}

// List is an ordered set of instances.
type List []Instance

// Find returns the instance with the given id. An empty id selects the
// first instance.
func (l List) Find(id string) (Instance, error) {
	if id == "" && len(l) > 0 {
		return l[0], nil
	}

	for _, i := range l {
		if i.ID == id {
			return i, nil
		}
	}

	return Instance{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// Validate checks every instance and rejects duplicate ids.
func (l List) Validate() error {
	seen := map[string]bool{}

	var errs []error
	for _, i := range l {
		if err := i.Validate(); err != nil {
			errs = append(errs, err)
		}
		if seen[i.ID] {
			errs = append(errs, fmt.Errorf("%w %q: duplicate id", ErrInvalid, i.ID))
		}

		seen[i.ID] = true
	}

	return errors.Join(errs...)
}
