package backup

import (
	"cloudsync/internal/task"
	"errors"
	"fmt"
)

// ErrUnsupportedProvider matches every UnsupportedProviderError
var ErrUnsupportedProvider = errors.New("unsupported provider")

// UnsupportedProviderError names the provider value no implementation exists for
type UnsupportedProviderError struct {
	Provider task.Provider
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider: %q", e.Provider.String())
}

func (e *UnsupportedProviderError) Is(target error) bool {
	return target == ErrUnsupportedProvider
}
