// Decision layer — pure functions from trait vectors to probabilities.
// Every probability output is clamped to [ProbFloor, ProbCeiling] so no
// agent is ever deterministically silent or deterministically gregarious.
package personality

// Probability clamp bounds.
const (
	ProbFloor   = 0.05
	ProbCeiling = 0.95
)

// OpennessConfideThreshold gates sharing of personality facts during
// gossip: only open talkers confide what someone is like.
const OpennessConfideThreshold = 0.6

// ClampProb bounds a probability to [ProbFloor, ProbCeiling].
func ClampProb(p float64) float64 {
	if p < ProbFloor {
		return ProbFloor
	}
	if p > ProbCeiling {
		return ProbCeiling
	}
	return p
}

// SocialDesire is the baseline propensity to initiate contact with a
// known other.
func SocialDesire(t Traits) float64 {
	p := 0.3 + 0.4*t.Extroversion + 0.1*t.Openness - 0.15*t.Neuroticism
	return ClampProb(p)
}

// StrangerApproach is the propensity to initiate contact with someone
// the agent has no mental model of. Typically lower than SocialDesire.
func StrangerApproach(t Traits) float64 {
	p := 0.1 + 0.3*t.Extroversion + 0.2*t.Openness - 0.15*t.Neuroticism
	return ClampProb(p)
}

// GossipChance is the per-fact probability of passing along something
// known about a third party. Extroverts talk; the conscientious are
// discreet.
func GossipChance(t Traits) float64 {
	p := 0.2 + 0.5*t.Extroversion - 0.3*t.Conscientiousness
	return ClampProb(p)
}

// ConversationLength returns a duration multiplier, not a probability.
// Ranges roughly [0.5, 2.0]: a pair of agreeable extroverts lingers,
// a withdrawn pair keeps it short.
func ConversationLength(t Traits) float64 {
	return 0.5 + t.Extroversion + 0.5*t.Agreeableness
}
