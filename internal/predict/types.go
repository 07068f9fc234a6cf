package predict

import (
	"github.com/stub-enhancer/predictor/internal/encoding"
	"github.com/stub-enhancer/predictor/internal/forward"
)

// #region placeholders

// Dropdown placeholders the dashboard shows before a value is chosen.
const (
	CredentialPlaceholder = "Select Credentials"
	FieldPlaceholder      = "Select Field"
	YearsPlaceholder      = "Select Years Experience"
)

// PromptText is shown instead of a prediction until all inputs are chosen.
const PromptText = "Enter details to get your prediction."

// #endregion placeholders

// #region selection

// Selection is the raw state of the three dropdowns.
type Selection struct {
	Credential string
	Field      string
	Years      string
}

// Outcome is what the prediction panel shows for a Selection.
type Outcome struct {
	Ready       bool // all three inputs chosen; Prompt is empty and Explanation is set
	Prompt      string
	Input       encoding.Input
	Explanation *Explanation
}

// #endregion selection

// #region explanation

// Explanation carries everything the network view needs for one prediction.
type Explanation struct {
	Input          encoding.Input
	Vector         encoding.Vector
	CredentialSlot int // active one-hot slot, 0-based within the credential block
	Result         *forward.Result
	ModelVersion   string
}

// Output is the predicted value.
func (e *Explanation) Output() float64 { return e.Result.Output() }

// CredentialNode is the input node id carrying the active credential flag.
func (e *Explanation) CredentialNode() string {
	return e.Result.Layers[0][encoding.OneHotOffset+e.CredentialSlot]
}

// #endregion explanation
