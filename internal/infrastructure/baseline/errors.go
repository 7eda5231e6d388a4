package baseline

import "fmt"

// ConfigurationError reports a baseline that cannot be used. The service
// must not start when one is returned.
type ConfigurationError struct {
	Err    error
	Source string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("baseline configuration error (%s): %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
