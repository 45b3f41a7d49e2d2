package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/mdpkm/pkg/instance"
	"github.com/macropower/mdpkm/pkg/platform"
	"github.com/macropower/mdpkm/pkg/platform/curseforge"
	"github.com/macropower/mdpkm/pkg/platform/modrinth"
	"github.com/macropower/mdpkm/pkg/schema"
	"github.com/macropower/mdpkm/pkg/search"
	"github.com/macropower/mdpkm/pkg/yaml"
)

const (
	APIVersion = "mdpkm.jacobcolvin.com/v1beta1"
	Kind       = "Configuration"

	SchemaFile = "config.v1beta1.json"
	SchemaURL  = "https://raw.githubusercontent.com/macropower/mdpkm/refs/heads/main/pkg/config/" + SchemaFile
)

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	ErrInvalid = errors.New("invalid configuration")

	// SchemaJSON is the JSON schema for [Config].
	SchemaJSON = mustGenerateSchema()

	DefaultValidator = schema.MustNewValidator(SchemaURL, SchemaJSON)
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind      string     `json:"kind"                jsonschema:"title=Kind"`
	Search    *Search    `json:"search,omitempty"    jsonschema:"title=Search"`
	Platforms *Platforms `json:"platforms,omitempty" jsonschema:"title=Platforms"`
	// Instances whose loader and game version filter searches.
	Instances instance.List `json:"instances,omitempty" jsonschema:"title=Instances"`
	// DefaultInstance is the id of the instance used when none is given.
	// Empty selects the first instance.
	DefaultInstance string `json:"defaultInstance,omitempty" jsonschema:"title=Default Instance"`
	UI              *UI    `json:"ui,omitempty"              jsonschema:"title=UI"`
}

type Search struct {
	// Platform is the id of the platform searched first.
	Platform string `json:"platform,omitempty" jsonschema:"title=Platform,enum=modrinth,enum=curseforge,enum=offline"`
	// Category filters results; "none" disables the filter.
	Category string `json:"category,omitempty" jsonschema:"title=Category"`
	// PageSize is the number of hits per page.
	PageSize int `json:"pageSize,omitempty" jsonschema:"title=Page Size,minimum=1,maximum=100"`
}

type Platforms struct {
	Modrinth   *Remote `json:"modrinth,omitempty"   jsonschema:"title=Modrinth"`
	CurseForge *Remote `json:"curseforge,omitempty" jsonschema:"title=CurseForge"`
}

// Remote configures an HTTP platform client.
type Remote struct {
	BaseURL string `json:"baseURL,omitempty" jsonschema:"title=Base URL,format=uri"`
	// APIKey is sent with every request, where the platform requires one.
	APIKey string `json:"apiKey,omitempty" jsonschema:"title=API Key"`
	// Timeout is a Go duration string, e.g. "15s".
	Timeout string `json:"timeout,omitempty" jsonschema:"title=Timeout,pattern=^([0-9]+(ns|us|ms|s|m|h))+$"`
}

type UI struct {
	// Theme is a chroma style name, or one of auto, dark, light.
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme"`
}

// New returns a [Config] with every default filled in.
func New() *Config {
	c := &Config{
		APIVersion: APIVersion,
		Kind:       Kind,
	}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.Search == nil {
		c.Search = &Search{}
	}
	if c.Search.Platform == "" {
		c.Search.Platform = modrinth.ID
	}
	if c.Search.Category == "" {
		c.Search.Category = search.CategoryNone
	}
	if c.Search.PageSize == 0 {
		c.Search.PageSize = search.DefaultPageSize
	}

	if c.Platforms == nil {
		c.Platforms = &Platforms{}
	}
	if c.Platforms.Modrinth == nil {
		c.Platforms.Modrinth = &Remote{}
	}
	if c.Platforms.Modrinth.BaseURL == "" {
		c.Platforms.Modrinth.BaseURL = modrinth.DefaultBaseURL
	}
	if c.Platforms.CurseForge == nil {
		c.Platforms.CurseForge = &Remote{}
	}
	if c.Platforms.CurseForge.BaseURL == "" {
		c.Platforms.CurseForge.BaseURL = curseforge.DefaultBaseURL
	}

	if c.UI == nil {
		c.UI = &UI{}
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "auto"
	}
}

// Validate checks requirements the schema cannot express.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Instances.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.DefaultInstance != "" {
		if _, err := c.Instances.Find(c.DefaultInstance); err != nil {
			errs = append(errs, fmt.Errorf("defaultInstance: %w", err))
		}
	}

	if c.Platforms != nil {
		if _, err := c.Platforms.Modrinth.TimeoutDuration(); err != nil {
			errs = append(errs, fmt.Errorf("platforms.modrinth.timeout: %w", err))
		}
		if _, err := c.Platforms.CurseForge.TimeoutDuration(); err != nil {
			errs = append(errs, fmt.Errorf("platforms.curseforge.timeout: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// Instance returns the instance named id, falling back to
// DefaultInstance and then to the first instance.
func (c *Config) Instance(id string) (instance.Instance, error) {
	if id == "" {
		id = c.DefaultInstance
	}

	i, err := c.Instances.Find(id)
	if err != nil {
		return instance.Instance{}, fmt.Errorf("select instance: %w", err)
	}

	return i, nil
}

// TimeoutDuration parses Timeout. An empty timeout is
// [platform.DefaultTimeout].
func (r *Remote) TimeoutDuration() (time.Duration, error) {
	if r == nil || r.Timeout == "" {
		return platform.DefaultTimeout, nil
	}

	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parse timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse timeout: %q is not positive", r.Timeout)
	}

	return d, nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	for key, values := range map[string][]string{
		"apiVersion": {APIVersion},
		"kind":       {Kind},
	} {
		prop, ok := jss.Properties.Get(key)
		if !ok {
			panic(key + " property not found in schema")
		}

		for _, v := range values {
			prop.Enum = append(prop.Enum, v)
		}

		_, _ = jss.Properties.Set(key, prop)
	}
}

func (c *Config) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(*c) //nolint:wrapcheck // Already wrapped.
}

// Write writes c to path unless a file already exists there.
func (c *Config) Write(path string) error {
	info, err := os.Stat(path)
	if info != nil {
		if err == nil && info.Mode().IsRegular() {
			return nil
		}

		return fmt.Errorf("%s: path is not a regular file", path)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = os.WriteFile(path, b, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

func mustGenerateSchema() []byte {
	b, err := schema.Generate(SchemaURL, &Config{})
	if err != nil {
		panic(err)
	}

	return b
}
