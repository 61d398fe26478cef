package transfer

import (
	"fmt"

	"github.com/bancarata/bankportal/internal/logger"
	"github.com/bancarata/bankportal/internal/repository"
)

// Backend names as used in deployment configuration
const (
	BackendCompensating = "compensating"
	BackendAtomic       = "atomic"
)

// NewBackend builds the mutation backend selected by configuration
func NewBackend(name string, storage repository.Storage, l logger.Logger) (Backend, error) {
	switch name {
	case BackendCompensating:
		return NewCompensatingBackend(storage, l), nil
	case BackendAtomic:
		return NewAtomicBackend(storage), nil
	default:
		return nil, fmt.Errorf("unknown transfer backend %q", name)
	}
}
