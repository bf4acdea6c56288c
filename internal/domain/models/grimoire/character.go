package grimoire

// CharacterInputs are the persisted fields of a character sheet. Derived
// statistics are never stored as the source of truth.
type CharacterInputs struct {
	Name       string   `json:"name"`
	ClassType  string   `json:"classType"`
	Species    string   `json:"species"`
	Background string   `json:"background"`
	Level      FlexInt  `json:"level"`
	Address    FlexInt  `json:"address"`
	Spirit     FlexInt  `json:"spirit"`
	Power      FlexInt  `json:"power"`
	Wounds     []bool   `json:"wounds"`
	Equipment  []string `json:"equipment"`
	Image      string   `json:"image,omitempty"`
}

// Base returns the unmodified trait scores
func (c *CharacterInputs) Base() Traits {
	return Traits{Address: c.Address, Spirit: c.Spirit, Power: c.Power}
}

// Weapon is the equipped weapon used for attack and damage rolls
type Weapon struct {
	Name       string `json:"name"`
	WeaponType string `json:"weaponType"`
	Damage     string `json:"damage"`
}

// CharacterDerived holds every value recomputed from inputs and reference data
type CharacterDerived struct {
	TotalAddress int                   `json:"totalAddress"`
	TotalSpirit  int                   `json:"totalSpirit"`
	TotalPower   int                   `json:"totalPower"`
	ActionPoints int                   `json:"actionPoints"`
	HitPoints    int                   `json:"hitPoints"`
	Defense      int                   `json:"defense"`
	Weapon       *Weapon               `json:"weapon,omitempty"`
	AttackRoll   string                `json:"attackRoll"`
	DamageRoll   string                `json:"damageRoll,omitempty"`
	Paths        []string              `json:"paths"`
	Capacities   map[string][]Capacity `json:"capacities"`
}

// CharacterSheet pairs the stored inputs with their derived values
type CharacterSheet struct {
	GameID   string           `json:"gameId"`
	NodeID   string           `json:"nodeId"`
	Inputs   CharacterInputs  `json:"inputs"`
	Derived  CharacterDerived `json:"derived"`
	ImageURL string           `json:"imageUrl"`
}
