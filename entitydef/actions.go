package entitydef

// Fighter action names. Transition targets are resolved by name so that
// externally authored tables and the built-in ones agree on the id space.
const (
	ActionSpawn        = "Spawn"
	ActionIdle         = "Idle"
	ActionWalk         = "Walk"
	ActionJumpSquat    = "JumpSquat"
	ActionFall         = "Fall"
	ActionLand         = "Land"
	ActionTeeter       = "Teeter"
	ActionJab          = "Jab"
	ActionShieldOn     = "ShieldOn"
	ActionShield       = "Shield"
	ActionShieldOff    = "ShieldOff"
	ActionDamage       = "Damage"
	ActionDamageFly    = "DamageFly"
	ActionDamageFall   = "DamageFall"
	ActionLedgeGrab    = "LedgeGrab"
	ActionLedgeIdle    = "LedgeIdle"
	ActionGrabbingIdle = "GrabbingIdle"
	ActionGrabbedIdle  = "GrabbedIdle"
	ActionItemGrab     = "ItemGrab"
	ActionItemThrow    = "ItemThrow"
	ActionEliminated   = "Eliminated"
)

// Item action names.
const (
	ActionItemIdle    = "Idle"
	ActionItemHeld    = "Held"
	ActionItemThrown  = "Thrown"
	ActionItemDropped = "Dropped"
)

// Projectile action names.
const (
	ActionProjectileSpawn  = "Spawn"
	ActionProjectileTravel = "Travel"
	ActionProjectileHit    = "Hit"
)

// Hazard action names.
const (
	ActionHazardIdle   = "Idle"
	ActionHazardAttack = "Attack"
)

// FighterActions is the action set every fighter definition must declare.
var FighterActions = []string{
	ActionSpawn, ActionIdle, ActionWalk, ActionJumpSquat, ActionFall,
	ActionLand, ActionTeeter, ActionJab, ActionShieldOn, ActionShield,
	ActionShieldOff, ActionDamage, ActionDamageFly, ActionDamageFall,
	ActionLedgeGrab, ActionLedgeIdle, ActionGrabbingIdle, ActionGrabbedIdle,
	ActionItemGrab, ActionItemThrow, ActionEliminated,
}

// ItemActions is the action set every item definition must declare.
var ItemActions = []string{
	ActionItemIdle, ActionItemHeld, ActionItemThrown, ActionItemDropped,
}

// ProjectileActions is the action set every projectile definition must declare.
var ProjectileActions = []string{
	ActionProjectileSpawn, ActionProjectileTravel, ActionProjectileHit,
}

// HazardActions is the action set every hazard definition must declare.
var HazardActions = []string{ActionHazardIdle, ActionHazardAttack}
