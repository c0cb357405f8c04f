package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"

	"github.com/datazip-inc/olake-hydrator/types"
)

// AWS error codes
const (
	ResourceNotFoundException = "ResourceNotFoundException"
	AccessDeniedException     = "AccessDeniedException"
)

// ManagerAPI is the part of the Secrets Manager client used to read secrets
type ManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerResolver reads secrets from AWS Secrets Manager; the secret name is the
// coordinate with an optional prefix
type SecretsManagerResolver struct {
	api    ManagerAPI
	prefix string
}

func NewSecretsManagerResolver(ctx context.Context, region, prefix string) (*SecretsManagerResolver, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSecretsManagerResolverWithAPI(secretsmanager.NewFromConfig(cfg), prefix), nil
}

func NewSecretsManagerResolverWithAPI(api ManagerAPI, prefix string) *SecretsManagerResolver {
	return &SecretsManagerResolver{api: api, prefix: prefix}
}

func (s *SecretsManagerResolver) Resolve(ctx context.Context, coordinate string) ([]byte, error) {
	name := s.prefix + coordinate
	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(name)})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case ResourceNotFoundException:
				return nil, types.NewIllegalStateError("%s: %s", ErrSecretNotFound, name)
			case AccessDeniedException:
				return nil, types.NewIllegalStateError("access denied to secret %s: %s", name, apiErr.ErrorMessage())
			}
		}
		return nil, types.NewTransientIOError(err, "failed to read secret %s", name)
	}

	switch {
	case out.SecretString != nil:
		return []byte(*out.SecretString), nil
	case out.SecretBinary != nil:
		return out.SecretBinary, nil
	}
	return nil, types.NewIllegalStateError("secret %s has no value", name)
}
