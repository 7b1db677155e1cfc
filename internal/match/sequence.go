package match

// vetoOrder is the canonical BO-bracket script: alternating ban pairs and
// pick pairs that narrow toward the single decider at position 23.
var vetoOrder = []Step{
	{ID: 1, Team: TeamA, Kind: KindBan},
	{ID: 2, Team: TeamB, Kind: KindBan},
	{ID: 3, Team: TeamB, Kind: KindBan},
	{ID: 4, Team: TeamA, Kind: KindBan},
	{ID: 5, Team: TeamA, Kind: KindPick},
	{ID: 6, Team: TeamB, Kind: KindPick},
	{ID: 7, Team: TeamB, Kind: KindBan},
	{ID: 8, Team: TeamA, Kind: KindBan},
	{ID: 9, Team: TeamA, Kind: KindPick},
	{ID: 10, Team: TeamB, Kind: KindPick},
	{ID: 11, Team: TeamA, Kind: KindBan},
	{ID: 12, Team: TeamB, Kind: KindBan},
	{ID: 13, Team: TeamA, Kind: KindPick},
	{ID: 14, Team: TeamB, Kind: KindPick},
	{ID: 15, Team: TeamB, Kind: KindBan},
	{ID: 16, Team: TeamA, Kind: KindBan},
	{ID: 17, Team: TeamA, Kind: KindPick},
	{ID: 18, Team: TeamB, Kind: KindPick},
	{ID: 19, Team: TeamA, Kind: KindBan},
	{ID: 20, Team: TeamB, Kind: KindBan},
	{ID: 21, Team: TeamA, Kind: KindPick},
	{ID: 22, Team: TeamB, Kind: KindPick},
	{ID: 23, Team: TeamNone, Kind: KindDecider},
}

// DefaultSequence returns a fresh copy of the canonical 23-step order.
// Callers mutate steps (kind toggles, custom IDs), so never hand out the
// backing table.
func DefaultSequence() []Step {
	steps := make([]Step, len(vetoOrder))
	copy(steps, vetoOrder)
	return steps
}
