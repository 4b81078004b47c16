package types

import (
	"fmt"
)

// ValidateCatalogs checks the buff and consumable catalogs for consistency.
// It is run once at startup; a failure means the game must not start.
func ValidateCatalogs() error {
	for _, buffType := range AllBuffTypes() {
		definition, ok := BuffDefinitions[buffType]
		if !ok {
			return fmt.Errorf("buff type %q has no definition", buffType)
		}
		if definition.Type != buffType {
			return fmt.Errorf("buff definition for %q declares type %q", buffType, definition.Type)
		}
		if definition.DefaultDuration <= 0 {
			return fmt.Errorf("buff %q must have a positive default duration", buffType)
		}
	}
	if len(BuffDefinitions) != len(AllBuffTypes()) {
		return fmt.Errorf("buff catalog has %d definitions for %d declared types", len(BuffDefinitions), len(AllBuffTypes()))
	}

	seen := make(map[ConsumableType]struct{}, len(ConsumableDefinitions))
	for _, definition := range ConsumableDefinitions {
		if err := validateConsumableDefinition(definition); err != nil {
			return fmt.Errorf("consumable %q: %v", definition.Type, err)
		}
		if _, ok := seen[definition.Type]; ok {
			return fmt.Errorf("duplicate consumable definition %q", definition.Type)
		}
		seen[definition.Type] = struct{}{}
	}

	return nil
}

func validateConsumableDefinition(d ConsumableDefinition) error {
	if d.Size <= 0 {
		return fmt.Errorf("size must be positive")
	}
	if d.SpawnRatio <= 0 {
		return fmt.Errorf("spawn ratio must be positive")
	}
	lo, hi := d.SizeMultiplierRange[0], d.SizeMultiplierRange[1]
	if lo <= 0 || hi < lo {
		return fmt.Errorf("invalid size multiplier range [%v, %v]", lo, hi)
	}
	if d.SizeEffect == nil {
		return fmt.Errorf("missing size effect curve")
	}
	if !d.Color.Valid() {
		return fmt.Errorf("invalid color %v", d.Color)
	}
	if d.GrantsBuff() {
		if _, ok := BuffDefinitions[d.Buff]; !ok {
			return fmt.Errorf("grants unknown buff %q", d.Buff)
		}
	}
	return nil
}
