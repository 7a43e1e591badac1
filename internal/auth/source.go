// Package auth resolves the completion provider token and provisions one
// when none is available.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/quocvuong92/x-cli/internal/config"
)

// ErrCredentialMissing is returned when no source holds a token
var ErrCredentialMissing = errors.New("no API token found, run 'x init' to set one up")

// Source is one place a token can come from
type Source interface {
	// Name describes the source for status output
	Name() string
	// Token returns the token, or ErrCredentialMissing if the source is empty
	Token() (string, error)
}

// EnvSource reads the token from an environment variable
type EnvSource struct {
	Var string
}

// Name implements Source
func (s EnvSource) Name() string {
	return "environment variable " + s.Var
}

// Token implements Source
func (s EnvSource) Token() (string, error) {
	token := strings.TrimSpace(os.Getenv(s.Var))
	if token == "" {
		return "", ErrCredentialMissing
	}
	return token, nil
}

// FileSource reads the token stored by 'x init'
type FileSource struct {
	Path string
}

// Name implements Source
func (s FileSource) Name() string {
	return "token file " + s.Path
}

// Token implements Source
func (s FileSource) Token() (string, error) {
	return LoadToken(s.Path)
}

// StaticSource holds a token taken from the config file
type StaticSource struct {
	Label string
	Value string
}

// Name implements Source
func (s StaticSource) Name() string {
	return s.Label
}

// Token implements Source
func (s StaticSource) Token() (string, error) {
	if token := strings.TrimSpace(s.Value); token != "" {
		return token, nil
	}
	return "", ErrCredentialMissing
}

// Chain tries each source in order
type Chain []Source

// Name implements Source
func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.Name()
	}
	return strings.Join(names, ", ")
}

// Token implements Source
func (c Chain) Token() (string, error) {
	token, _, err := c.Resolve()
	return token, err
}

// Resolve returns the first available token and the source that had it.
// Errors other than ErrCredentialMissing stop the search.
func (c Chain) Resolve() (string, Source, error) {
	for _, s := range c {
		token, err := s.Token()
		if err == nil {
			return token, s, nil
		}
		if !errors.Is(err, ErrCredentialMissing) {
			return "", s, fmt.Errorf("%s: %w", s.Name(), err)
		}
	}
	return "", nil, ErrCredentialMissing
}

// NewChain builds the lookup order: environment, token file, config file
func NewChain(cfg *config.Config) Chain {
	chain := Chain{
		EnvSource{Var: config.EnvAPIToken},
		FileSource{Path: cfg.TokenFile},
	}
	if cfg.APIToken != "" {
		label := "config file"
		if cfg.ConfigPath != "" {
			label += " " + cfg.ConfigPath
		}
		chain = append(chain, StaticSource{Label: label, Value: cfg.APIToken})
	}
	return chain
}

var _ Source = EnvSource{}
var _ Source = FileSource{}
var _ Source = StaticSource{}
var _ Source = Chain{}
