// Package featureflag resolves boolean flags for a workspace, organization or connection.
//
// Flags are read from configuration under flags.<name>:
//
//	flags:
//	  persist-backfill-state:
//	    default: false
//	    workspaces: ["<uuid>"]
//	  use-runtime-secret-persistence:
//	    organizations: ["<uuid>"]
package featureflag

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/datazip-inc/olake-hydrator/constants"
	"github.com/datazip-inc/olake-hydrator/utils/logger"
)

type ScopeKind string

const (
	WorkspaceScope    ScopeKind = "workspaces"
	OrganizationScope ScopeKind = "organizations"
	ConnectionScope   ScopeKind = "connections"
)

// Scope is the entity a flag is evaluated for
type Scope struct {
	Kind ScopeKind
	ID   uuid.UUID
}

func Workspace(id uuid.UUID) Scope {
	return Scope{Kind: WorkspaceScope, ID: id}
}

func Organization(id uuid.UUID) Scope {
	return Scope{Kind: OrganizationScope, ID: id}
}

func Connection(id uuid.UUID) Scope {
	return Scope{Kind: ConnectionScope, ID: id}
}

// Definition is the configured rollout of one flag
type Definition struct {
	Default       bool     `mapstructure:"default"`
	Workspaces    []string `mapstructure:"workspaces"`
	Organizations []string `mapstructure:"organizations"`
	Connections   []string `mapstructure:"connections"`
}

func (d Definition) ids(kind ScopeKind) []string {
	switch kind {
	case WorkspaceScope:
		return d.Workspaces
	case OrganizationScope:
		return d.Organizations
	case ConnectionScope:
		return d.Connections
	}
	return nil
}

// Client evaluates flags from a viper instance. A flag is on for a scope when its id is listed
// under the scope kind, otherwise the flag's default applies. Unknown flags are off.
type Client struct {
	mu    sync.RWMutex
	flags map[string]Definition
}

// New loads every definition under the flags key of v
func New(v *viper.Viper) (*Client, error) {
	client := &Client{flags: map[string]Definition{}}
	if v == nil || !v.IsSet(constants.FlagsConfigKey) {
		return client, nil
	}

	raw := map[string]Definition{}
	if err := v.UnmarshalKey(constants.FlagsConfigKey, &raw); err != nil {
		return nil, err
	}
	for name, definition := range raw {
		client.flags[strings.ToLower(name)] = definition
	}
	return client, nil
}

// Set overrides a flag definition at runtime
func (c *Client) Set(flag string, definition Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flags[strings.ToLower(flag)] = definition
}

func (c *Client) IsEnabled(flag string, scope Scope) bool {
	c.mu.RLock()
	definition, found := c.flags[strings.ToLower(flag)]
	c.mu.RUnlock()
	if !found {
		return false
	}

	target := scope.ID.String()
	for _, id := range definition.ids(scope.Kind) {
		if strings.EqualFold(strings.TrimSpace(id), target) {
			logger.Debugf("flag[%s] enabled for %s[%s]", flag, scope.Kind, target)
			return true
		}
	}
	return definition.Default
}
