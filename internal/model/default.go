package model

import (
	_ "embed"
	"sync"
)

//go:embed artifact/salary_model.json
var defaultArtifact []byte

var (
	defaultOnce  sync.Once
	defaultModel *Model
	defaultErr   error
)

// DefaultArtifact returns a copy of the embedded artifact bytes.
func DefaultArtifact() []byte {
	return append([]byte(nil), defaultArtifact...)
}

// Default returns the embedded model. It is built once per process and shared.
func Default() (*Model, error) {
	defaultOnce.Do(func() {
		a, err := Parse(defaultArtifact)
		if err != nil {
			defaultErr = err
			return
		}
		defaultModel, defaultErr = a.Build()
	})
	return defaultModel, defaultErr
}
