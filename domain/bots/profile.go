package bots

// Profile is a bot's personality and bankroll. Every bot is driven by the
// same policy; profiles only change the numbers it works with.
type Profile struct {
	Name        string  `json:"name" mapstructure:"name"`
	Stack       int     `json:"stack" mapstructure:"stack"`
	Aggression  float64 `json:"aggression" mapstructure:"aggression"`   // 0..1, how often and how big it raises
	Tightness   float64 `json:"tightness" mapstructure:"tightness"`     // 0..1, how readily it gives up weak hands
	BluffChance float64 `json:"bluffChance" mapstructure:"bluff_chance"` // per decision
}

var (
	Jerry   = Profile{Name: "Jerry", Stack: 25_000, Aggression: 0.4, Tightness: 0.4, BluffChance: 0.15}
	Billy   = Profile{Name: "Billy", Stack: 100_000, Aggression: 0.7, Tightness: 0.3, BluffChance: 0.2}
	Faraday = Profile{Name: "Faraday", Stack: 1_000_000, Aggression: 0.8, Tightness: 0.2, BluffChance: 0.25}
)

// DefaultProfiles returns the house bots in seating order.
func DefaultProfiles() []Profile {
	return []Profile{Jerry, Billy, Faraday}
}
