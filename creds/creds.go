// Package creds supplies the API key used to authenticate against the
// Deepfield API. The key normally lives in a file the appliance manages,
// but it can also come from configuration or the environment.
package creds

import (
	"os"
	"strings"

	"github.com/kostecki-nokia/dashboard-export/errs"
	"github.com/samber/oops"
)

// DefaultKeyFile is where the appliance drops the API key.
const DefaultKeyFile = "/etc/deepfield/api_key"

// Provider yields an API key. Implementations return an error with the
// auth kind when no key can be produced.
type Provider interface {
	APIKey() (string, error)
}

// Static is a key known up front, e.g. from configuration.
type Static string

func (s Static) APIKey() (string, error) {
	if s == "" {
		return "", oops.
			In("Creds::Static").
			Code(errs.Auth).
			Errorf("no API key configured")
	}
	return string(s), nil
}

// FileProvider reads the key from a file, trimming surrounding whitespace.
type FileProvider struct {
	Path string
}

func (f FileProvider) APIKey() (string, error) {
	oopsBuilder := oops.
		In("Creds::FileProvider").
		Code(errs.Auth).
		With("path", f.Path)

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", oopsBuilder.Wrap(err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", oopsBuilder.Errorf("key file is empty")
	}
	return key, nil
}

// Chain tries each provider in order and returns the first key found.
type Chain []Provider

func (c Chain) APIKey() (string, error) {
	var lastErr error
	for _, p := range c {
		key, err := p.APIKey()
		if err == nil {
			return key, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = oops.
			In("Creds::Chain").
			Code(errs.Auth).
			Errorf("no credential providers configured")
	}
	return "", lastErr
}
