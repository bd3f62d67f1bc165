// Package personality provides the trait model and the probability mapping
// layer that turns traits into interaction decisions.
package personality

// Traits is a five-factor personality vector. Each scalar lies in [0, 1]
// and is fixed once generated; everything downstream reads it, nothing
// writes it.
type Traits struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extroversion      float64 `json:"extroversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
}

// FloatSource yields uniform floats in [0, 1). Satisfied by entropy.Source;
// declared here so the leaf package stays dependency-free.
type FloatSource interface {
	Float() float64
}

// Random generates a trait vector with each factor drawn uniformly.
func Random(rng FloatSource) Traits {
	return Traits{
		Openness:          rng.Float(),
		Conscientiousness: rng.Float(),
		Extroversion:      rng.Float(),
		Agreeableness:     rng.Float(),
		Neuroticism:       rng.Float(),
	}
}

// Inherit blends two parent vectors and adds a small mutation per factor.
// Values stay within [0, 1].
func Inherit(mother, father Traits, rng FloatSource) Traits {
	blend := func(m, f float64) float64 {
		// Weighted average plus noise in [-0.15, 0.15].
		w := rng.Float()
		v := m*w + f*(1-w) + (rng.Float()-0.5)*0.3
		return clamp01(v)
	}
	return Traits{
		Openness:          blend(mother.Openness, father.Openness),
		Conscientiousness: blend(mother.Conscientiousness, father.Conscientiousness),
		Extroversion:      blend(mother.Extroversion, father.Extroversion),
		Agreeableness:     blend(mother.Agreeableness, father.Agreeableness),
		Neuroticism:       blend(mother.Neuroticism, father.Neuroticism),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
