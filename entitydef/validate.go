package entitydef

import "fmt"

// Validate checks one definition for the defects the simulation refuses to
// run with. Malformed tables are configuration errors surfaced at load time,
// never discovered mid-step.
func (d *EntityDef) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("entity def has no name")
	}
	if len(d.Actions) == 0 {
		return fmt.Errorf("entity def %q declares no actions", d.Name)
	}
	if d.Weight <= 0 {
		return fmt.Errorf("entity def %q has non-positive weight %v", d.Name, d.Weight)
	}

	seen := make(map[string]bool, len(d.Actions))
	for ai := range d.Actions {
		action := &d.Actions[ai]
		if action.Name == "" {
			return fmt.Errorf("entity def %q: action %d has no name", d.Name, ai)
		}
		if seen[action.Name] {
			return fmt.Errorf("entity def %q: duplicate action %q", d.Name, action.Name)
		}
		seen[action.Name] = true
		if len(action.Frames) == 0 {
			return fmt.Errorf("entity def %q: action %q has no frames", d.Name, action.Name)
		}

		for fi := range action.Frames {
			frame := &action.Frames[fi]
			for ci := range frame.Colboxes {
				box := &frame.Colboxes[ci]
				if box.Radius <= 0 {
					return fmt.Errorf("entity def %q: %s frame %d colbox %d has non-positive radius",
						d.Name, action.Name, fi, ci)
				}
				switch box.Role {
				case RoleHit:
					if box.Hit == nil {
						return fmt.Errorf("entity def %q: %s frame %d colbox %d is a hitbox without hit data",
							d.Name, action.Name, fi, ci)
					}
				case RoleHurt:
					if box.Hurt == nil {
						// default hurtbox: plain target
						box.Hurt = &HurtBox{DamageMult: 1.0}
					}
				case RoleGrab, RoleInvincible, RoleReflect, RoleAbsorb:
				default:
					return fmt.Errorf("entity def %q: %s frame %d colbox %d has unknown role %q",
						d.Name, action.Name, fi, ci, box.Role)
				}
			}
		}
	}

	d.index()
	return nil
}

// RequireActions rejects a definition missing any of the named actions. Each
// entity variant requires its own action set before simulation starts.
func (d *EntityDef) RequireActions(names ...string) error {
	for _, name := range names {
		if !d.HasAction(name) {
			return fmt.Errorf("entity def %q is missing required action %q", d.Name, name)
		}
	}
	return nil
}

// Validate checks every definition in the table.
func (ds Defs) Validate() error {
	for key, def := range ds {
		if def == nil {
			return fmt.Errorf("entity def %q is nil", key)
		}
		if err := def.Validate(); err != nil {
			return fmt.Errorf("entity def %q: %w", key, err)
		}
	}
	return nil
}
