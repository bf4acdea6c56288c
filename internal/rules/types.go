package rules

// Trait names as they appear in reference data and roll labels
const (
	TraitAddress = "adresse"
	TraitSpirit  = "esprit"
	TraitPower   = "puissance"
)

// CharacterRules holds the constants of character derivation
type CharacterRules struct {
	FileType          string `yaml:"file_type" json:"file_type"`
	DefaultImage      string `yaml:"default_image" json:"default_image"`
	BaseDefense       int    `yaml:"base_defense" json:"base_defense"`
	BaseHitPoints     int    `yaml:"base_hit_points" json:"base_hit_points"`
	HitPointsPerPower int    `yaml:"hit_points_per_power" json:"hit_points_per_power"`
	BaseActionPoints  int    `yaml:"base_action_points" json:"base_action_points"`
	WoundSlots        int    `yaml:"wound_slots" json:"wound_slots"`
	MinLevel          int    `yaml:"min_level" json:"min_level"`
	MaxLevel          int    `yaml:"max_level" json:"max_level"`
}

// ReferenceRules names the note file types holding reference tables
type ReferenceRules struct {
	ProfileFileType string   `yaml:"profile_file_type" json:"profile_file_type"`
	RaceFileType    string   `yaml:"race_file_type" json:"race_file_type"`
	ItemTypes       []string `yaml:"item_types" json:"item_types"`
	WeaponItemType  string   `yaml:"weapon_item_type" json:"weapon_item_type"`
	ArmorItemType   string   `yaml:"armor_item_type" json:"armor_item_type"`
}

// WeaponType maps a weapon category to the traits added to its rolls
type WeaponType struct {
	ID          string `yaml:"-" json:"id"`
	Label       string `yaml:"label" json:"label"`
	AttackTrait string `yaml:"attack_trait" json:"attack_trait"`
	DamageTrait string `yaml:"damage_trait" json:"damage_trait,omitempty"`
}

// Labels are the chat labels of combat rolls
type Labels struct {
	Attack string `yaml:"attack" json:"attack"`
	Damage string `yaml:"damage" json:"damage"`
}

// Rules is the full rule set
type Rules struct {
	Character   CharacterRules         `yaml:"character" json:"character"`
	Reference   ReferenceRules         `yaml:"reference" json:"reference"`
	WeaponTypes map[string]*WeaponType `yaml:"weapon_types" json:"weapon_types"`
	Labels      Labels                 `yaml:"labels" json:"labels"`
}
