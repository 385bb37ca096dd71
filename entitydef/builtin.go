package entitydef

import "github.com/rukai/canon-collision-sub001/geom"

// Built-in definitions used by the sandbox and as a reference for externally
// authored tables. Numeric tuning here is placeholder data, not a gameplay
// statement.

func hurtFrames(count int, radius float64) []ActionFrame {
	frames := make([]ActionFrame, count)
	for i := range frames {
		frames[i] = ActionFrame{
			ECB: DefaultECB(),
			Colboxes: []CollisionBox{
				{X: 0, Y: 6, Radius: radius, Role: RoleHurt, Hurt: &HurtBox{DamageMult: 1.0}},
			},
		}
	}
	return frames
}

// BasicFighter returns a fighter definition declaring the full fighter
// action set.
func BasicFighter() *EntityDef {
	jabFrames := hurtFrames(20, 6)
	for i := 5; i < 10; i++ {
		jabFrames[i].Colboxes = append(jabFrames[i].Colboxes, CollisionBox{
			X: 7, Y: 8, Radius: 3, Role: RoleHit,
			Hit: &HitBox{
				Damage: 6.0, BKB: 40.0, KBG: 1.0, Angle: 45.0,
				EnableClang: true, EnableRebound: true, EnableReverseHit: true,
				HitstunTimesKnockback: 0.5,
			},
		})
	}

	fallFrames := hurtFrames(1, 6)
	fallFrames[0].LedgeGrabBox = &geom.Rect{X1: 2, Y1: 8, X2: 14, Y2: 20}
	fallFrames[0].PassThrough = true

	idleFrames := hurtFrames(30, 6)
	for i := range idleFrames {
		idleFrames[i].ItemGrabBox = &geom.Rect{X1: -6, Y1: 0, X2: 6, Y2: 12}
	}

	walkFrames := hurtFrames(8, 6)
	for i := range walkFrames {
		walkFrames[i].LedgeCancel = true
		walkFrames[i].UsePlatformAngle = true
	}

	grabFrames := hurtFrames(12, 6)
	grabFrames[4].Colboxes = append(grabFrames[4].Colboxes, CollisionBox{
		X: 6, Y: 8, Radius: 3, Role: RoleGrab,
	})

	def := &EntityDef{
		Name:                "basic-fighter",
		Weight:              1.0,
		Gravity:             -0.23,
		TerminalVel:         -2.8,
		FastfallTerminalVel: -4.1,
		JumpYInitVel:        4.2,
		JumpXInitVel:        1.0,
		AirMobilityA:        0.06,
		AirMobilityB:        0.02,
		AirXTermVel:         1.1,
		AirFriction:         0.05,
		AirJumps:            1,
		WalkInitVel:         0.4,
		WalkAcc:             0.2,
		WalkMaxVel:          1.3,
		Friction:            0.1,
		LedgeGrabX:          -2.0,
		LedgeGrabY:          -24.0,
		Shield: &Shield{
			OffsetY: 8.0, Scaling: 8.0, HpScaling: 1.0, HpMax: 60.0, HpRegen: 0.1,
		},
		PowerShield: &PowerShield{
			Parry:     &PowerShieldEffect{Window: 4, Duration: 20},
			EnemyStun: &PowerShieldEffect{Window: 4, Duration: 40},
		},
		Actions: []ActionDef{
			{Name: ActionSpawn, Frames: hurtFrames(30, 6)},
			{Name: ActionIdle, Frames: idleFrames},
			{Name: ActionWalk, Frames: walkFrames},
			{Name: ActionJumpSquat, Frames: hurtFrames(4, 6)},
			{Name: ActionFall, Frames: fallFrames},
			{Name: ActionLand, Frames: hurtFrames(4, 6)},
			{Name: ActionTeeter, Frames: hurtFrames(10, 6)},
			{Name: ActionJab, Frames: jabFrames, IASA: 16},
			{Name: ActionShieldOn, Frames: hurtFrames(2, 6)},
			{Name: ActionShield, Frames: hurtFrames(1, 6)},
			{Name: ActionShieldOff, Frames: hurtFrames(3, 6)},
			{Name: ActionDamage, Frames: hurtFrames(20, 6)},
			{Name: ActionDamageFly, Frames: hurtFrames(1, 6)},
			{Name: ActionDamageFall, Frames: fallFrames},
			{Name: ActionLedgeGrab, Frames: hurtFrames(6, 6)},
			{Name: ActionLedgeIdle, Frames: hurtFrames(30, 6)},
			{Name: ActionGrabbingIdle, Frames: hurtFrames(30, 6)},
			{Name: ActionGrabbedIdle, Frames: hurtFrames(30, 6)},
			{Name: ActionItemGrab, Frames: grabFrames},
			{Name: ActionItemThrow, Frames: hurtFrames(12, 6)},
			{Name: ActionEliminated, Frames: hurtFrames(1, 6)},
		},
	}
	return def
}

// BasicItem returns a small grabbable, throwable item definition.
func BasicItem() *EntityDef {
	idle := hurtFrames(1, 2)
	idle[0].ItemGrabBox = &geom.Rect{X1: -3, Y1: -1, X2: 3, Y2: 5}

	thrown := hurtFrames(1, 2)
	thrown[0].Colboxes = append(thrown[0].Colboxes, CollisionBox{
		X: 0, Y: 2, Radius: 2, Role: RoleHit,
		Hit: &HitBox{
			Damage: 4.0, BKB: 30.0, KBG: 0.8, Angle: 361.0,
			HitstunTimesKnockback: 0.5,
		},
	})

	return &EntityDef{
		Name:        "basic-item",
		Weight:      0.4,
		Gravity:     -0.18,
		TerminalVel: -2.2,
		AirXTermVel: 2.0,
		Friction:    0.12,
		Actions: []ActionDef{
			{Name: ActionItemIdle, Frames: idle},
			{Name: ActionItemHeld, Frames: hurtFrames(1, 2)},
			{Name: ActionItemThrown, Frames: thrown},
			{Name: ActionItemDropped, Frames: hurtFrames(1, 2)},
		},
	}
}

// BasicProjectile returns a projectile definition with a travel hitbox.
func BasicProjectile() *EntityDef {
	travel := make([]ActionFrame, 1)
	travel[0] = ActionFrame{
		ECB: ECB{Left: -1, Right: 1, Top: 2, Bottom: 0},
		Colboxes: []CollisionBox{
			{X: 0, Y: 1, Radius: 2, Role: RoleHit,
				Hit: &HitBox{
					Damage: 5.0, BKB: 20.0, KBG: 0.6, Angle: 20.0,
					HitstunTimesKnockback: 0.5,
				}},
		},
	}
	return &EntityDef{
		Name:    "basic-projectile",
		Weight:  0.1,
		Gravity: 0.0,
		Actions: []ActionDef{
			{Name: ActionProjectileSpawn, Frames: []ActionFrame{{ECB: DefaultECB()}}},
			{Name: ActionProjectileTravel, Frames: travel},
			{Name: ActionProjectileHit, Frames: []ActionFrame{{ECB: DefaultECB()}}},
		},
	}
}

// BasicHazard returns a stage hazard with a periodic attack.
func BasicHazard() *EntityDef {
	attack := hurtFrames(40, 8)
	for i := 10; i < 20; i++ {
		attack[i].Colboxes = append(attack[i].Colboxes, CollisionBox{
			X: 0, Y: 10, Radius: 10, Role: RoleHit,
			Hit: &HitBox{
				Damage: 12.0, BKB: 60.0, KBG: 1.2, Angle: 80.0,
				EnableClang: true, EnableRebound: false,
				HitstunTimesKnockback: 0.5,
			},
		})
	}
	return &EntityDef{
		Name:    "basic-hazard",
		Weight:  10.0,
		Gravity: 0.0,
		Actions: []ActionDef{
			{Name: ActionHazardIdle, Frames: hurtFrames(120, 8)},
			{Name: ActionHazardAttack, Frames: attack},
		},
	}
}

// Builtin returns the built-in definition table, validated.
func Builtin() Defs {
	defs := Defs{
		"basic-fighter":    BasicFighter(),
		"basic-item":       BasicItem(),
		"basic-projectile": BasicProjectile(),
		"basic-hazard":     BasicHazard(),
	}
	if err := defs.Validate(); err != nil {
		// built-in data failing validation is a programming defect
		panic(err)
	}
	return defs
}
