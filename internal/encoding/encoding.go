package encoding

import (
	"fmt"
	"sort"
)

// #region tables

// Tables holds the frozen encodings produced alongside the trained model.
type Tables struct {
	Fields      map[string]float64 // target-encoded z-score per field of study
	Years       map[int]float64    // standardized years after graduation
	Credentials map[Credential]int // one-hot slot offset in [0, OneHotSlots)
}

// Encode maps a selection to the network input vector.
func (t Tables) Encode(cred Credential, field string, years int) (Vector, error) {
	var v Vector

	y, ok := t.Years[years]
	if !ok {
		return v, fmt.Errorf("%w: %d", ErrUnknownYearsValue, years)
	}
	f, ok := t.Fields[field]
	if !ok {
		return v, fmt.Errorf("%w: %q", ErrUnknownFieldOfStudy, field)
	}
	slot, err := t.Slot(cred)
	if err != nil {
		return v, err
	}

	v[0] = y
	v[1] = f
	v[OneHotOffset+slot] = 1
	return v, nil
}

// EncodeInput is Encode for an Input value.
func (t Tables) EncodeInput(in Input) (Vector, error) {
	return t.Encode(in.Credential, in.Field, in.Years)
}

// Slot returns the one-hot offset of cred.
func (t Tables) Slot(cred Credential) (int, error) {
	if !cred.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCredential, int(cred))
	}
	slot, ok := t.Credentials[cred]
	if !ok || slot < 0 || slot >= OneHotSlots {
		return 0, fmt.Errorf("%w: %s has no slot", ErrInvalidCredential, cred)
	}
	return slot, nil
}

// Validate checks that the tables can encode every credential into a distinct slot.
func (t Tables) Validate() error {
	if len(t.Fields) == 0 {
		return fmt.Errorf("encoding tables: no fields")
	}
	if len(t.Years) == 0 {
		return fmt.Errorf("encoding tables: no years")
	}
	used := make(map[int]Credential)
	for _, c := range Credentials {
		slot, err := t.Slot(c)
		if err != nil {
			return fmt.Errorf("encoding tables: %w", err)
		}
		if prev, dup := used[slot]; dup {
			return fmt.Errorf("encoding tables: %s and %s share slot %d", prev, c, slot)
		}
		used[slot] = c
	}
	return nil
}

// #endregion tables

// #region enumerate

// FieldNames returns the known fields sorted alphabetically.
func (t Tables) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for f := range t.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// YearValues returns the known years in ascending order.
func (t Tables) YearValues() []int {
	ys := make([]int, 0, len(t.Years))
	for y := range t.Years {
		ys = append(ys, y)
	}
	sort.Ints(ys)
	return ys
}

// Combinations enumerates every encodable input: credential, then field, then years.
func (t Tables) Combinations() []Input {
	fields := t.FieldNames()
	years := t.YearValues()
	out := make([]Input, 0, len(Credentials)*len(fields)*len(years))
	for _, c := range Credentials {
		if _, err := t.Slot(c); err != nil {
			continue
		}
		for _, f := range fields {
			for _, y := range years {
				out = append(out, Input{Credential: c, Field: f, Years: y})
			}
		}
	}
	return out
}

// #endregion enumerate
