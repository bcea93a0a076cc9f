package health

import "errors"

var (
	// ErrInvalidStatus indicates a status value outside the recognized scale.
	ErrInvalidStatus = errors.New("health: invalid status")

	// ErrNilProbe indicates a nil probe was registered.
	ErrNilProbe = errors.New("health: nil probe")

	// ErrNilTest indicates a nil test was registered.
	ErrNilTest = errors.New("health: nil test")

	// ErrEmptyName indicates a probe or test without a name.
	ErrEmptyName = errors.New("health: empty name")

	// ErrDuplicateName indicates a name that is already registered.
	ErrDuplicateName = errors.New("health: duplicate name")

	// ErrInvalidDependencyType indicates an unrecognized dependency kind.
	ErrInvalidDependencyType = errors.New("health: invalid dependency type")

	// ErrProbeTimeout indicates a dependency probe exceeded its timeout.
	ErrProbeTimeout = errors.New("health: probe timeout")

	// ErrTestTimeout indicates an integration test exceeded its timeout.
	ErrTestTimeout = errors.New("health: test timeout")

	// ErrProbePanic indicates a dependency probe panicked.
	ErrProbePanic = errors.New("health: probe panicked")

	// ErrTestPanic indicates an integration test panicked.
	ErrTestPanic = errors.New("health: test panicked")

	// ErrNoService indicates a monitor configured without a service name.
	ErrNoService = errors.New("health: service name required")

	// ErrNoSampler indicates a monitor configured without a resource sampler.
	ErrNoSampler = errors.New("health: resource sampler required")

	// ErrMissingToken indicates a guarded request without a bearer token.
	ErrMissingToken = errors.New("health: missing token")

	// ErrInvalidToken indicates a guarded request with an unverifiable token.
	ErrInvalidToken = errors.New("health: invalid token")

	// ErrMissingEnvVar indicates a config reference to an unset variable.
	ErrMissingEnvVar = errors.New("health: missing environment variable")
)
