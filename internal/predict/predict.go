package predict

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"k8s.io/klog/v2"

	"github.com/stub-enhancer/predictor/internal/encoding"
	"github.com/stub-enhancer/predictor/internal/forward"
	"github.com/stub-enhancer/predictor/internal/model"
)

// DefaultCacheSize covers every valid input of the default encodings.
const DefaultCacheSize = 2048

// #region predictor

// Predictor turns (credential, field, years) into a salary estimate. Safe for concurrent use.
type Predictor struct {
	model     *model.Model
	evaluator *forward.Evaluator
	cache     *lru.Cache[encoding.Input, float64]
}

// Option configures a Predictor.
type Option func(*options)

type options struct {
	cacheSize int
}

// WithCacheSize sets the result cache size; 0 disables caching.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// New compiles m into a predictor.
func New(m *model.Model, opts ...Option) (*Predictor, error) {
	o := options{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	ev, err := forward.NewEvaluator(m.Topology, m.Params)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Version, err)
	}

	p := &Predictor{model: m, evaluator: ev}
	if o.cacheSize > 0 {
		p.cache, err = lru.New[encoding.Input, float64](o.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("prediction cache: %w", err)
		}
	}
	return p, nil
}

// Model returns the model the predictor evaluates.
func (p *Predictor) Model() *model.Model { return p.model }

// Version is the model version.
func (p *Predictor) Version() string { return p.model.Version }

// Predict returns the output-layer value for the given inputs.
func (p *Predictor) Predict(cred encoding.Credential, field string, years int) (float64, error) {
	in := encoding.Input{Credential: cred, Field: field, Years: years}
	if p.cache != nil {
		if v, ok := p.cache.Get(in); ok {
			return v, nil
		}
	}

	vec, err := p.model.Encodings.EncodeInput(in)
	if err != nil {
		return 0, err
	}
	out, err := p.evaluator.Output(vec.Slice())
	if err != nil {
		return 0, err
	}
	klog.V(2).Infof("predict model=%s credential=%q field=%q years=%d output=%.2f", p.model.Version, cred, field, years, out)

	if p.cache != nil {
		p.cache.Add(in, out)
	}
	return out, nil
}

// Explain runs a full evaluation and keeps every node value.
func (p *Predictor) Explain(cred encoding.Credential, field string, years int) (*Explanation, error) {
	in := encoding.Input{Credential: cred, Field: field, Years: years}
	vec, err := p.model.Encodings.EncodeInput(in)
	if err != nil {
		return nil, err
	}
	slot, err := p.model.Encodings.Slot(cred)
	if err != nil {
		return nil, err
	}
	res, err := p.evaluator.Evaluate(vec.Slice())
	if err != nil {
		return nil, err
	}
	return &Explanation{
		Input:          in,
		Vector:         vec,
		CredentialSlot: slot,
		Result:         res,
		ModelVersion:   p.model.Version,
	}, nil
}

// #endregion predictor

// #region selection

// Ready reports whether all three dropdowns hold a real value.
func (s Selection) Ready() bool {
	return chosen(s.Credential, CredentialPlaceholder) &&
		chosen(s.Field, FieldPlaceholder) &&
		chosen(s.Years, YearsPlaceholder)
}

func chosen(v, placeholder string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != placeholder
}

// Parse converts a ready selection into typed input. It does not check the encoding tables.
func (s Selection) Parse() (encoding.Input, error) {
	cred, err := encoding.ParseCredential(strings.TrimSpace(s.Credential))
	if err != nil {
		return encoding.Input{}, err
	}
	years, err := strconv.Atoi(strings.TrimSpace(s.Years))
	if err != nil {
		return encoding.Input{}, fmt.Errorf("%w: %q", encoding.ErrUnknownYearsValue, s.Years)
	}
	return encoding.Input{Credential: cred, Field: strings.TrimSpace(s.Field), Years: years}, nil
}

// PredictSelection gates on the dropdown state: an incomplete selection gets the prompt
// and never reaches the encoder.
func (p *Predictor) PredictSelection(s Selection) (Outcome, error) {
	if !s.Ready() {
		return Outcome{Prompt: PromptText}, nil
	}
	in, err := s.Parse()
	if err != nil {
		return Outcome{}, err
	}
	ex, err := p.Explain(in.Credential, in.Field, in.Years)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Ready: true, Input: in, Explanation: ex}, nil
}

// #endregion selection
