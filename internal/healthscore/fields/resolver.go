// internal/healthscore/fields/resolver.go
package fields

import (
	"errors"
	"sort"
	"strings"
	"unicode"
)

// ErrFieldNotFound is returned when no alias yields a usable value.
var ErrFieldNotFound = errors.New("FIELD_NOT_FOUND")

// legacyAnnualThreshold is the monthly value above which a legacy record is
// assumed to hold an annual figure.
const legacyAnnualThreshold = 50000

// Partner namespaces used in couple mode.
const (
	Partner1 = "partner1"
	Partner2 = "partner2"
)

// Options controls a single resolution.
type Options struct {
	// CombinePartners sums partner1 and partner2 values in couple mode.
	CombinePartners bool
	// AllowZero accepts an explicit 0 instead of treating it as missing.
	AllowZero bool
	// DefaultValue is returned by Resolve when nothing usable is found.
	DefaultValue float64
}

// Source describes how a value was found.
type Source string

const (
	SourceAlias              Source = "alias"
	SourceNormalized         Source = "normalized"
	SourcePartners           Source = "partners"
	SourceIndividualFallback Source = "individual_fallback"
)

// Resolution is a successfully resolved value and where it came from.
type Resolution struct {
	Value  float64
	Key    string
	Source Source
}

// Resolver maps canonical fields onto raw records. It holds no per-call
// state and is safe for concurrent use.
type Resolver struct {
	mappings     map[CanonicalField][]string
	normalized   map[CanonicalField][]string
	legacyAnnual bool
}

type ResolverOption func(*Resolver)

// WithMappings replaces the alias dictionary.
func WithMappings(m map[CanonicalField][]string) ResolverOption {
	return func(r *Resolver) { r.mappings = m }
}

// WithLegacyAnnualHeuristic divides monthly values above 50,000 by 12.
// Only meant for ingesting records from older wizard versions.
func WithLegacyAnnualHeuristic(enabled bool) ResolverOption {
	return func(r *Resolver) { r.legacyAnnual = enabled }
}

func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{mappings: FieldMappings}
	for _, opt := range opts {
		opt(r)
	}

	r.normalized = make(map[CanonicalField][]string, len(r.mappings))
	for field, aliases := range r.mappings {
		norm := make([]string, len(aliases))
		for i, a := range aliases {
			norm[i] = normalizeKey(a)
		}
		r.normalized[field] = norm
	}
	return r
}

// Aliases returns the ordered alias list for field.
func (r *Resolver) Aliases(field CanonicalField) []string {
	return r.mappings[field]
}

// Resolve returns the best-effort value of field, or opts.DefaultValue.
func (r *Resolver) Resolve(rec Record, field CanonicalField, opts Options) float64 {
	res, err := r.Lookup(rec, field, opts)
	if err != nil {
		return opts.DefaultValue
	}
	return res.Value
}

// Has reports whether any alias of field holds a numeric value, zero included.
func (r *Resolver) Has(rec Record, field CanonicalField, combinePartners bool) bool {
	_, err := r.Lookup(rec, field, Options{CombinePartners: combinePartners, AllowZero: true})
	return err == nil
}

// Lookup resolves field and reports ErrFieldNotFound when nothing usable exists.
func (r *Resolver) Lookup(rec Record, field CanonicalField, opts Options) (Resolution, error) {
	if opts.CombinePartners && IsCouple(rec) {
		p1, ok1 := r.lookupIn(rec, field, Partner1, opts.AllowZero)
		p2, ok2 := r.lookupIn(rec, field, Partner2, opts.AllowZero)
		sum := p1.Value + p2.Value

		if (ok1 || ok2) && (sum != 0 || opts.AllowZero) {
			keys := make([]string, 0, 2)
			for _, p := range []Resolution{p1, p2} {
				if p.Key != "" {
					keys = append(keys, p.Key)
				}
			}
			return Resolution{Value: sum, Key: strings.Join(keys, "+"), Source: SourcePartners}, nil
		}

		// legacy couple records were often entered under individual keys
		if res, ok := r.lookupIn(rec, field, "", opts.AllowZero); ok {
			res.Source = SourceIndividualFallback
			return res, nil
		}
		return Resolution{}, ErrFieldNotFound
	}

	if res, ok := r.lookupIn(rec, field, "", opts.AllowZero); ok {
		return res, nil
	}
	return Resolution{}, ErrFieldNotFound
}

// LookupPartner resolves field within a single partner namespace.
func (r *Resolver) LookupPartner(rec Record, field CanonicalField, partner string, allowZero bool) (Resolution, error) {
	if res, ok := r.lookupIn(rec, field, partner, allowZero); ok {
		return res, nil
	}
	return Resolution{}, ErrFieldNotFound
}

// LookupPersonal resolves a per-person value such as an age or a rate.
// Couple records without an individual key use partner1.
func (r *Resolver) LookupPersonal(rec Record, field CanonicalField) (Resolution, error) {
	if res, ok := r.lookupIn(rec, field, "", false); ok {
		return res, nil
	}
	if IsCouple(rec) {
		return r.LookupPartner(rec, field, Partner1, false)
	}
	return Resolution{}, ErrFieldNotFound
}

// lookupIn resolves field inside one namespace ("" for individual keys).
func (r *Resolver) lookupIn(rec Record, field CanonicalField, namespace string, allowZero bool) (Resolution, bool) {
	for _, alias := range r.mappings[field] {
		key := prefixed(namespace, alias)
		raw, exists := rec[key]
		if !exists {
			continue
		}
		if v, ok := r.value(field, raw, allowZero); ok {
			return Resolution{Value: v, Key: key, Source: SourceAlias}, true
		}
	}

	return r.lookupNormalized(rec, field, namespace, allowZero)
}

// lookupNormalized catches spelling variants no alias anticipated, such as
// "Monthly_Salary" or "partner-1 salary".
func (r *Resolver) lookupNormalized(rec Record, field CanonicalField, namespace string, allowZero bool) (Resolution, bool) {
	candidates := make(map[string][]string)
	for key := range rec {
		norm := normalizeKey(key)
		switch {
		case namespace == "" && isPartnerKey(norm):
			continue
		case namespace != "":
			if !strings.HasPrefix(norm, namespace) {
				continue
			}
			norm = strings.TrimPrefix(norm, namespace)
		}
		candidates[norm] = append(candidates[norm], key)
	}

	for _, alias := range r.normalized[field] {
		keys := candidates[alias]
		sort.Strings(keys)
		for _, key := range keys {
			if v, ok := r.value(field, rec[key], allowZero); ok {
				return Resolution{Value: v, Key: key, Source: SourceNormalized}, true
			}
		}
	}
	return Resolution{}, false
}

func (r *Resolver) value(field CanonicalField, raw interface{}, allowZero bool) (float64, bool) {
	var v float64
	if amount, period, ok := parsePeriodValue(raw); ok {
		v = amount
		if field.IsMonthly() && period == PeriodAnnual {
			v = amount / 12
		}
	} else {
		parsed, ok := ParseNumber(raw)
		if !ok {
			return 0, false
		}
		v = parsed
		if r.legacyAnnual && field.IsMonthly() && v > legacyAnnualThreshold {
			v = v / 12
		}
	}

	if v == 0 && !allowZero {
		return 0, false
	}
	return v, true
}

func prefixed(namespace, alias string) string {
	if namespace == "" || alias == "" {
		return alias
	}
	runes := []rune(alias)
	runes[0] = unicode.ToUpper(runes[0])
	return namespace + string(runes)
}

func normalizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range strings.ToLower(key) {
		switch r {
		case '_', '-', ' ':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isPartnerKey(norm string) bool {
	return strings.HasPrefix(norm, Partner1) || strings.HasPrefix(norm, Partner2)
}
