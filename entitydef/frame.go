package entitydef

import "github.com/rukai/canon-collision-sub001/geom"

// Role classifies a collision box.
type Role string

const (
	RoleHurt       Role = "hurt"       // a target
	RoleHit        Role = "hit"        // a launching attack
	RoleGrab       Role = "grab"       // a grabbing attack
	RoleInvincible Role = "invincible" // cannot receive damage or knockback
	RoleReflect    Role = "reflect"    // reflects projectiles
	RoleAbsorb     Role = "absorb"     // absorbs projectiles
)

// CollisionBox is a circle positioned relative to the entity. Hit and Hurt
// carry their payloads only when the role matches.
type CollisionBox struct {
	X      float64 `mapstructure:"x"`
	Y      float64 `mapstructure:"y"`
	Radius float64 `mapstructure:"radius"`
	Role   Role    `mapstructure:"role"`

	Hit  *HitBox  `mapstructure:"hit"`
	Hurt *HurtBox `mapstructure:"hurt"`
}

// HitBox is the payload of a RoleHit collision box.
type HitBox struct {
	Damage       float64 `mapstructure:"damage"`
	ShieldDamage float64 `mapstructure:"shield_damage"`
	BKB          float64 `mapstructure:"bkb"` // base knockback
	KBG          float64 `mapstructure:"kbg"` // knockback growth
	// Angle in degrees. 361 and -181 are the sakurai-angle sentinels.
	Angle            float64 `mapstructure:"angle"`
	EnableClang      bool    `mapstructure:"enable_clang"`
	EnableRebound    bool    `mapstructure:"enable_rebound"`
	EnableReverseHit bool    `mapstructure:"enable_reverse_hit"`

	// Hitstun duration: frames when HitstunFrames > 0, otherwise
	// HitstunTimesKnockback scaled by the knockback velocity.
	HitstunFrames         int     `mapstructure:"hitstun_frames"`
	HitstunTimesKnockback float64 `mapstructure:"hitstun_times_knockback"`
}

// HurtBox is the payload of a RoleHurt collision box.
type HurtBox struct {
	BKBAdd     float64 `mapstructure:"bkb_add"`
	KBGAdd     float64 `mapstructure:"kbg_add"`
	DamageMult float64 `mapstructure:"damage_mult"`
}

// ECB is the environmental collision box used for stage interaction.
type ECB struct {
	Left   float64 `mapstructure:"left"`
	Right  float64 `mapstructure:"right"`
	Top    float64 `mapstructure:"top"`
	Bottom float64 `mapstructure:"bottom"`
}

// DefaultECB matches the original fighter proportions.
func DefaultECB() ECB {
	return ECB{Left: -4.0, Right: 4.0, Top: 16.0, Bottom: 0.0}
}

// VelModify adjusts one velocity axis on the frame it appears.
type VelModify struct {
	Kind  VelModifyKind `mapstructure:"kind"`
	Value float64       `mapstructure:"value"`
}

type VelModifyKind string

const (
	VelModifyNone VelModifyKind = ""
	VelModifySet  VelModifyKind = "set"
	VelModifyAdd  VelModifyKind = "add"
)

// Apply returns the velocity after this modifier.
func (v VelModify) Apply(vel float64) float64 {
	switch v.Kind {
	case VelModifySet:
		return v.Value
	case VelModifyAdd:
		return vel + v.Value
	default:
		return vel
	}
}

// ActionFrame is the static data of one frame of one action.
type ActionFrame struct {
	ECB      ECB            `mapstructure:"ecb"`
	Colboxes []CollisionBox `mapstructure:"colboxes"`

	XVelModify VelModify `mapstructure:"x_vel_modify"`
	YVelModify VelModify `mapstructure:"y_vel_modify"`

	// offsets used while grabbing / being grabbed / holding an item
	GrabbingX float64   `mapstructure:"grabbing_x"`
	GrabbingY float64   `mapstructure:"grabbing_y"`
	GrabbedX  float64   `mapstructure:"grabbed_x"`
	GrabbedY  float64   `mapstructure:"grabbed_y"`
	ItemHold  *ItemHold `mapstructure:"item_hold"`

	PassThrough      bool `mapstructure:"pass_through"`       // aerial actions only
	LedgeCancel      bool `mapstructure:"ledge_cancel"`       // ground actions only
	UsePlatformAngle bool `mapstructure:"use_platform_angle"` // ground actions only
	ForceHitlistReset bool `mapstructure:"force_hitlist_reset"`

	LedgeGrabBox *geom.Rect `mapstructure:"ledge_grab_box"`
	ItemGrabBox  *geom.Rect `mapstructure:"item_grab_box"`
}

// ItemHold offsets a held item from its holder.
type ItemHold struct {
	TranslationX float64 `mapstructure:"translation_x"`
	TranslationY float64 `mapstructure:"translation_y"`
}

// Hitboxes returns the frame's RoleHit boxes in declared order.
func (f *ActionFrame) Hitboxes() []*CollisionBox {
	var boxes []*CollisionBox
	for i := range f.Colboxes {
		if f.Colboxes[i].Role == RoleHit {
			boxes = append(boxes, &f.Colboxes[i])
		}
	}
	return boxes
}
