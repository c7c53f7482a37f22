package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrMissingCredential = errors.New("API key not found: set it in the environment or .env file")

// ParamGetter reads a named secret from a parameter store.
type ParamGetter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// ResolveAPIKey returns envKey when set. Otherwise, when paramName is set, the
// key is read through the getter built by newGetter. The getter is only built
// on that path so a plain env deployment never touches AWS.
func ResolveAPIKey(ctx context.Context, envKey, paramName string, newGetter func(context.Context) (ParamGetter, error)) (string, error) {
	if key := strings.TrimSpace(envKey); key != "" {
		return key, nil
	}
	if strings.TrimSpace(paramName) == "" || newGetter == nil {
		return "", ErrMissingCredential
	}

	getter, err := newGetter(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create parameter store client: %w", err)
	}
	key, err := getter.GetParameter(ctx, paramName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingCredential, err)
	}
	if strings.TrimSpace(key) == "" {
		return "", ErrMissingCredential
	}
	return strings.TrimSpace(key), nil
}
