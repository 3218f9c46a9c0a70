package config

import "fmt"

// ConfigError reports an invalid checker, problem, result or misc
// configuration. It is always fatal for the config being loaded.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return e.msg
}

func errorf(format string, args ...any) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}
