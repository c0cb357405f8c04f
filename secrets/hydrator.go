// Package secrets replaces secret coordinates in connector configurations with the secret
// values they point to. A coordinate node is an object of the form {"_secret": "<coordinate>"}.
package secrets

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/datazip-inc/olake-hydrator/constants"
	"github.com/datazip-inc/olake-hydrator/types"
	"github.com/datazip-inc/olake-hydrator/utils/logger"
)

var ErrSecretNotFound = errors.New("secret not found")

// Resolver returns the plaintext stored under a coordinate. Callers own the returned buffer.
type Resolver interface {
	Resolve(ctx context.Context, coordinate string) ([]byte, error)
}

// ConfigHydrator resolves every coordinate node of a configuration through one Resolver
type ConfigHydrator struct {
	resolver Resolver
}

func NewConfigHydrator(resolver Resolver) *ConfigHydrator {
	return &ConfigHydrator{resolver: resolver}
}

// Hydrate returns a copy of config with each coordinate node replaced by its secret string.
// Numbers keep their original text. The input is never aliased by the result.
func (h *ConfigHydrator) Hydrate(ctx context.Context, config json.RawMessage) (json.RawMessage, error) {
	if len(bytes.TrimSpace(config)) == 0 {
		return append(json.RawMessage{}, config...), nil
	}

	decoder := json.NewDecoder(bytes.NewReader(config))
	decoder.UseNumber()
	var tree any
	if err := decoder.Decode(&tree); err != nil {
		return nil, types.NewValidationError("failed to decode connector configuration: %s", err)
	}

	resolved := 0
	hydrated, err := h.walk(ctx, tree, &resolved)
	if err != nil {
		return nil, err
	}
	if resolved == 0 {
		return append(json.RawMessage{}, config...), nil
	}

	out, err := json.Marshal(hydrated)
	if err != nil {
		return nil, fmt.Errorf("failed to encode hydrated configuration: %w", err)
	}
	logger.Debugf("resolved %d secret coordinate(s)", resolved)
	return out, nil
}

func (h *ConfigHydrator) walk(ctx context.Context, node any, resolved *int) (any, error) {
	switch typed := node.(type) {
	case map[string]any:
		if coordinate, ok := coordinateOf(typed); ok {
			value, err := h.resolve(ctx, coordinate)
			if err != nil {
				return nil, err
			}
			*resolved++
			return value, nil
		}
		for key, child := range typed {
			value, err := h.walk(ctx, child, resolved)
			if err != nil {
				return nil, err
			}
			typed[key] = value
		}
		return typed, nil
	case []any:
		for idx, child := range typed {
			value, err := h.walk(ctx, child, resolved)
			if err != nil {
				return nil, err
			}
			typed[idx] = value
		}
		return typed, nil
	default:
		return node, nil
	}
}

func (h *ConfigHydrator) resolve(ctx context.Context, coordinate string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	plaintext, err := h.resolver.Resolve(ctx, coordinate)
	if err != nil {
		return "", fmt.Errorf("failed to resolve secret[%s]: %w", coordinate, err)
	}
	value := string(plaintext)
	wipe(plaintext)
	return value, nil
}

func coordinateOf(node map[string]any) (string, bool) {
	raw, found := node[constants.SecretKey]
	if !found {
		return "", false
	}
	coordinate, ok := raw.(string)
	return coordinate, ok && coordinate != ""
}

func wipe(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
