package encoding

import (
	"errors"
	"fmt"
)

// #region errors

var (
	ErrUnknownYearsValue   = errors.New("unknown years value")
	ErrUnknownFieldOfStudy = errors.New("unknown field of study")
	ErrInvalidCredential   = errors.New("invalid credential")
)

// IsInputError reports whether err rejects the caller's input rather than the model.
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnknownYearsValue) ||
		errors.Is(err, ErrUnknownFieldOfStudy) ||
		errors.Is(err, ErrInvalidCredential)
}

// #endregion errors

// #region credential

// Credential is the closed set of credential types the model was trained on.
type Credential int

const (
	Certificate Credential = iota
	Diploma
	Bachelor
	Master
	Doctoral
	ProfessionalBachelor
)

// Credentials lists every credential in declaration order.
var Credentials = []Credential{Certificate, Diploma, Bachelor, Master, Doctoral, ProfessionalBachelor}

var credentialLabels = map[Credential]string{
	Certificate:          "Certificate",
	Diploma:              "Diploma",
	Bachelor:             "Bachelor's degree",
	Master:               "Master's degree",
	Doctoral:             "Doctoral degree",
	ProfessionalBachelor: "Professional bachelor's degree",
}

// String returns the dataset label, e.g. "Bachelor's degree".
func (c Credential) String() string {
	if l, ok := credentialLabels[c]; ok {
		return l
	}
	return fmt.Sprintf("Credential(%d)", int(c))
}

// Valid reports whether c is one of the declared credentials.
func (c Credential) Valid() bool {
	_, ok := credentialLabels[c]
	return ok
}

// ParseCredential maps a dataset label back to its Credential.
func ParseCredential(label string) (Credential, error) {
	for c, l := range credentialLabels {
		if l == label {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCredential, label)
}

// #endregion credential

// #region vector

// Width is the length of an encoded input vector.
const Width = 8

// OneHotOffset is the index of the first credential slot.
const OneHotOffset = 2

// OneHotSlots is the number of credential slots.
const OneHotSlots = Width - OneHotOffset

// Vector is [years, field, credential one-hot x6].
type Vector [Width]float64

// Slice returns the vector as a slice for the evaluator.
func (v Vector) Slice() []float64 { return v[:] }

// Input is one raw (credential, field, years) selection.
type Input struct {
	Credential Credential
	Field      string
	Years      int
}

// #endregion vector
