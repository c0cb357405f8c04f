package secrets

import (
	"context"
	"sync"

	"github.com/datazip-inc/olake-hydrator/crypto"
	"github.com/datazip-inc/olake-hydrator/types"
)

// MemoryResolver serves secrets from an in-process map
type MemoryResolver struct {
	mu      sync.RWMutex
	secrets map[string]string
}

func NewMemoryResolver(secrets map[string]string) *MemoryResolver {
	copied := make(map[string]string, len(secrets))
	for coordinate, value := range secrets {
		copied[coordinate] = value
	}
	return &MemoryResolver{secrets: copied}
}

func (m *MemoryResolver) Put(coordinate, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[coordinate] = value
}

func (m *MemoryResolver) Resolve(_ context.Context, coordinate string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, found := m.secrets[coordinate]
	if !found {
		return nil, types.NewIllegalStateError("%s: %s", ErrSecretNotFound, coordinate)
	}
	return []byte(value), nil
}

// DecryptingResolver opens secrets stored as encrypted JSON envelopes by another resolver
type DecryptingResolver struct {
	inner  Resolver
	cipher *crypto.Cipher
}

func NewDecryptingResolver(inner Resolver, cipher *crypto.Cipher) *DecryptingResolver {
	return &DecryptingResolver{inner: inner, cipher: cipher}
}

func (d *DecryptingResolver) Resolve(ctx context.Context, coordinate string) ([]byte, error) {
	envelope, err := d.inner.Resolve(ctx, coordinate)
	if err != nil {
		return nil, err
	}
	defer wipe(envelope)

	plaintext, err := d.cipher.DecryptJSONString(ctx, string(envelope))
	if err != nil {
		return nil, types.NewValidationError("secret[%s] could not be decrypted: %s", coordinate, err)
	}
	return plaintext, nil
}
