package grimoire

import (
	"strings"

	"grimoires/internal/dice"
	models "grimoires/internal/domain/models/grimoire"
	grimoireSvc "grimoires/internal/domain/services/grimoire"
	"grimoires/internal/rules"
)

// Derive recomputes every derived value of a sheet from its inputs and the
// game's reference tables. Unknown profile, race or items contribute nothing.
func Derive(rs *rules.Rules, in *models.CharacterInputs, ref *grimoireSvc.ReferenceData) models.CharacterDerived {
	if ref == nil {
		ref = &grimoireSvc.ReferenceData{}
	}

	total := in.Base()
	profile := findProfile(ref.Profiles, in.ClassType)
	if race := findRace(ref.Races, in.Species); race != nil {
		total = total.Add(race.Traits)
	}
	if profile != nil {
		total = total.Add(profile.Traits)
	}

	d := models.CharacterDerived{
		TotalAddress: int(total.Address),
		TotalSpirit:  int(total.Spirit),
		TotalPower:   int(total.Power),
		Paths:        []string{},
		Capacities:   map[string][]models.Capacity{},
	}
	d.ActionPoints = rs.Character.BaseActionPoints + d.TotalSpirit
	d.HitPoints = rs.Character.BaseHitPoints + rs.Character.HitPointsPerPower*d.TotalPower

	d.Defense = rs.Character.BaseDefense + d.TotalAddress
	gear := equipped(ref.Items, in.Equipment)
	for i := range gear {
		if gear[i].FileType == rs.Reference.ArmorItemType {
			d.Defense += gear[i].DefenseBonus()
		}
	}
	for i := range gear {
		if gear[i].FileType == rs.Reference.WeaponItemType {
			d.Weapon = &models.Weapon{
				Name:       gear[i].Name,
				WeaponType: gear[i].WeaponType,
				Damage:     strings.TrimSpace(string(gear[i].Damage)),
			}
			break
		}
	}

	attack, damage := combatRolls(rs, d)
	d.AttackRoll = attack.Command()
	if damage != nil {
		d.DamageRoll = damage.Command()
	}

	if profile != nil {
		d.Paths = profile.PathNames()
		d.Capacities = profile.CapacitiesByPath()
	}
	return d
}

// combatRolls builds the attack check and, when the weapon has a damage
// expression that parses, the damage roll.
func combatRolls(rs *rules.Rules, d models.CharacterDerived) (dice.Expression, *dice.Expression) {
	if d.Weapon == nil {
		return dice.PlainCheck(), nil
	}

	wt := rs.WeaponTypes[d.Weapon.WeaponType]
	attack := dice.PlainCheck()
	if wt != nil && wt.AttackTrait != "" {
		attack = dice.Check(traitTotal(d, wt.AttackTrait))
	}

	if d.Weapon.Damage == "" {
		return attack, nil
	}
	var bonus *int
	if wt != nil && wt.DamageTrait != "" {
		v := traitTotal(d, wt.DamageTrait)
		bonus = &v
	}
	damage, err := dice.WithBonus(d.Weapon.Damage, bonus)
	if err != nil {
		return attack, nil
	}
	return attack, &damage
}

// traitTotal returns the derived total of a trait by name
func traitTotal(d models.CharacterDerived, trait string) int {
	switch trait {
	case rules.TraitAddress:
		return d.TotalAddress
	case rules.TraitSpirit:
		return d.TotalSpirit
	case rules.TraitPower:
		return d.TotalPower
	}
	return 0
}
