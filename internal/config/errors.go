package config

import (
	"fmt"
	"strings"
)

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

type InvalidYAMLError struct {
	Path    string
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error {
	return e.Wrapped
}

type InvalidConfigError struct {
	Path      string
	Locations []string
	Wrapped   error
}

func (e *InvalidConfigError) Error() string {
	if len(e.Locations) == 0 {
		return fmt.Sprintf("%s is not a valid config file: %v", e.Path, e.Wrapped)
	}
	return fmt.Sprintf("%s is not a valid config file: invalid value at %s",
		e.Path, strings.Join(e.Locations, ", "))
}

func (e *InvalidConfigError) Unwrap() error {
	return e.Wrapped
}

type InvalidJobsError struct {
	Jobs int
}

func (e *InvalidJobsError) Error() string {
	return fmt.Sprintf("invalid number of jobs %d: must be 0 or more", e.Jobs)
}

type InvalidColourModeError struct {
	Value string
}

func (e *InvalidColourModeError) Error() string {
	return fmt.Sprintf("invalid color mode %q: must be one of %s", e.Value, strings.Join(colourModeNames(), ", "))
}
