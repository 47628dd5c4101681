package service

import (
	"errors"
	"fmt"
	"strings"
)

// maxNameLength is the SCM limit for service and display names.
const maxNameLength = 256

// Identity names the service in the supervisor's registry.
type Identity struct {
	name        string
	displayName string
}

// NewIdentity creates an identity. An empty display name defaults to name.
func NewIdentity(name, displayName string) Identity {
	if displayName == "" {
		displayName = name
	}
	return Identity{name: name, displayName: displayName}
}

// Name returns the internal service name.
func (id Identity) Name() string { return id.name }

// DisplayName returns the human-readable name.
func (id Identity) DisplayName() string { return id.displayName }

// Validate checks that the name can be registered with the supervisor.
func (id Identity) Validate() error {
	if id.name == "" {
		return errors.New("service name must not be empty")
	}
	if len(id.name) > maxNameLength {
		return fmt.Errorf("service name exceeds %d characters", maxNameLength)
	}
	if strings.ContainsAny(id.name, `/\`) {
		return fmt.Errorf("service name %q must not contain path separators", id.name)
	}
	if len(id.displayName) > maxNameLength {
		return fmt.Errorf("display name exceeds %d characters", maxNameLength)
	}
	return nil
}

func (id Identity) String() string {
	return id.name
}
