package context

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
)

// ContextEnvVar selects a context when neither --endpoint nor --context is given.
const ContextEnvVar = "RACCOON_CONTEXT"

const maxContextNameLength = 63

var contextNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Context names a raccoon server that 'raccoon trigger' can drive.
type Context struct {
	Name     string `yaml:"name" json:"name"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Output is the default output format for this server, if any.
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// File is the contents of contexts.yaml.
type File struct {
	CurrentContext string    `yaml:"current-context,omitempty"`
	Contexts       []Context `yaml:"contexts,omitempty"`
}

// ValidateName checks that name is a lowercase DNS label.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("context name cannot be empty")
	case len(name) > maxContextNameLength:
		return fmt.Errorf("context name cannot exceed %d characters", maxContextNameLength)
	case !contextNamePattern.MatchString(name):
		return fmt.Errorf("context name %q must contain only lowercase letters, numbers and hyphens, and start and end with an alphanumeric character", name)
	}
	return nil
}

// ValidateEndpoint checks that endpoint is an absolute http(s) URL.
func ValidateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("endpoint %q must be an http or https URL", endpoint)
	}
	return nil
}

// Get returns the named context, or nil.
func (f *File) Get(name string) *Context {
	i := f.index(name)
	if i < 0 {
		return nil
	}
	return &f.Contexts[i]
}

// Put adds ctx or replaces the context of the same name.
func (f *File) Put(ctx Context) {
	if i := f.index(ctx.Name); i >= 0 {
		f.Contexts[i] = ctx
		return
	}
	f.Contexts = append(f.Contexts, ctx)
}

// Remove deletes the named context and clears it as current.
// It reports whether the context existed.
func (f *File) Remove(name string) bool {
	i := f.index(name)
	if i < 0 {
		return false
	}
	f.Contexts = slices.Delete(f.Contexts, i, i+1)
	if f.CurrentContext == name {
		f.CurrentContext = ""
	}
	return true
}

func (f *File) index(name string) int {
	return slices.IndexFunc(f.Contexts, func(c Context) bool { return c.Name == name })
}

// NotFoundError is returned for an unknown context name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("context %q not found", e.Name)
}
