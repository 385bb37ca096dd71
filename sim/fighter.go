package sim

import (
	"math"

	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/stage"
)

const (
	walkStickThreshold  = 0.3
	shieldHoldThreshold = 0.3
	fastfallThreshold   = -0.65
	grabEscapeFrames    = 60
	itemThrowFrame      = 4
	itemThrowXVel       = 3.0
	itemThrowYVel       = 1.5
	shieldDrainPerFrame = 0.15
	shieldBreakStun     = 60.0
	shortHopMult        = 0.6
)

// Fighter is a player-controlled entity.
type Fighter struct {
	Body    Body
	PlayerI int
	Stocks  int

	Hitstun      float64
	AirJumpsLeft int
	Fastfalled   bool
	ShieldHp     float64

	HeldItem EntityKey
	Grabbing EntityKey
}

// NewFighter spawns a fighter for the given player at a spawn point.
func NewFighter(defKey string, def *entitydef.EntityDef, playerI, stocks int, spawn stage.SpawnPoint) *Entity {
	f := &Fighter{
		Body:         NewBody(spawn.X, spawn.Y, spawn.FaceRight),
		PlayerI:      playerI,
		Stocks:       stocks,
		AirJumpsLeft: def.AirJumps,
	}
	if def.Shield != nil {
		f.ShieldHp = def.Shield.HpMax
	}
	return &Entity{
		State: NewActionState(defKey, def, entitydef.ActionSpawn),
		Ty:    f,
	}
}

func (f *Fighter) body() *Body { return &f.Body }

func (f *Fighter) playerID() *int { return &f.PlayerI }

func (f *Fighter) defaultAction() string { return entitydef.ActionIdle }

func (f *Fighter) clone() Variant {
	out := *f
	out.Body = f.Body.clone()
	return &out
}

func (f *Fighter) shieldRadius(shield *entitydef.Shield) float64 {
	frac := 1.0
	if shield.HpMax > 0.0 {
		frac = f.ShieldHp / shield.HpMax
	}
	return shield.Scaling * ((1.0 - shield.HpScaling) + shield.HpScaling*frac)
}

func (f *Fighter) shieldHeld(ctx *StepContext) bool {
	in := ctx.Input
	if in == nil {
		return false
	}
	return in.R.Value || in.L.Value ||
		in.RTrigger.Value > shieldHoldThreshold || in.LTrigger.Value > shieldHoldThreshold
}

func jumpPressed(ctx *StepContext) bool {
	in := ctx.Input
	if in == nil {
		return false
	}
	return in.X.Press || in.Y.Press
}

func (f *Fighter) actionStep(ctx *StepContext, state *ActionState) *actionResult {
	def := ctx.Def
	if !f.shielding(state, def) && def.Shield != nil {
		f.ShieldHp = math.Min(f.ShieldHp+def.Shield.HpRegen, def.Shield.HpMax)
	}

	switch state.ActionName(def) {
	case entitydef.ActionIdle, entitydef.ActionTeeter:
		f.Body.ApplyFriction(ctx)
		return f.groundOptions(ctx, state)
	case entitydef.ActionWalk:
		return f.walkStep(ctx, state)
	case entitydef.ActionJab:
		f.Body.ApplyFriction(ctx)
		if iasa := def.Actions[state.Action].IASA; iasa > 0 && state.Frame >= iasa {
			return f.groundOptions(ctx, state)
		}
	case entitydef.ActionLand:
		f.Body.ApplyFriction(ctx)
	case entitydef.ActionFall, entitydef.ActionDamageFall:
		f.aerialStep(ctx)
	case entitydef.ActionDamage:
		f.Body.ApplyFriction(ctx)
		f.Hitstun = math.Max(f.Hitstun-1.0, 0.0)
	case entitydef.ActionDamageFly:
		f.Hitstun = math.Max(f.Hitstun-1.0, 0.0)
		if f.Hitstun <= 0.0 {
			return setAction(entitydef.ActionDamageFall)
		}
	case entitydef.ActionShield:
		f.ShieldHp -= shieldDrainPerFrame
		if f.ShieldHp <= 0.0 {
			return f.shieldBreak(ctx, state)
		}
		if !f.shieldHeld(ctx) {
			return setAction(entitydef.ActionShieldOff)
		}
	case entitydef.ActionLedgeIdle:
		return f.ledgeOptions(ctx, state)
	case entitydef.ActionGrabbingIdle:
		if !ctx.Entities.Contains(f.Grabbing) {
			f.Grabbing = EntityKey{}
			return setAction(entitydef.ActionIdle)
		}
	case entitydef.ActionGrabbedIdle:
		return f.grabEscapeStep(ctx, state)
	case entitydef.ActionItemThrow:
		if state.Frame == itemThrowFrame && ctx.Entities.Contains(f.HeldItem) {
			ctx.SendMessage(f.HeldItem, MessageItemThrown{
				XVel: f.Body.RelativeF(itemThrowXVel),
				YVel: itemThrowYVel,
			})
			f.HeldItem = EntityKey{}
		}
	}
	return nil
}

func (f *Fighter) shielding(state *ActionState, def *entitydef.EntityDef) bool {
	switch state.ActionName(def) {
	case entitydef.ActionShieldOn, entitydef.ActionShield, entitydef.ActionShieldOff:
		return true
	default:
		return false
	}
}

// groundOptions is the shared interrupt set of grounded neutral actions.
func (f *Fighter) groundOptions(ctx *StepContext, state *ActionState) *actionResult {
	in := ctx.Input
	if in == nil {
		return nil
	}
	if jumpPressed(ctx) {
		return setAction(entitydef.ActionJumpSquat)
	}
	if in.A.Press {
		return setAction(entitydef.ActionJab)
	}
	if in.Z.Press && ctx.Entities.Contains(f.HeldItem) {
		return setAction(entitydef.ActionItemThrow)
	}
	if f.shieldHeld(ctx) {
		return setAction(entitydef.ActionShieldOn)
	}
	if math.Abs(in.StickX.Value) > walkStickThreshold {
		f.Body.FaceRight = in.StickX.Value > 0.0
		if state.ActionName(ctx.Def) != entitydef.ActionWalk {
			f.Body.XVel = f.Body.RelativeF(ctx.Def.WalkInitVel)
			return setAction(entitydef.ActionWalk)
		}
	}
	return nil
}

func (f *Fighter) walkStep(ctx *StepContext, state *ActionState) *actionResult {
	in := ctx.Input
	if in == nil || math.Abs(in.StickX.Value) <= walkStickThreshold {
		return setAction(entitydef.ActionIdle)
	}
	if result := f.groundOptions(ctx, state); result != nil {
		return result
	}
	if (in.StickX.Value > 0.0) != f.Body.FaceRight {
		f.Body.FaceRight = in.StickX.Value > 0.0
		f.Body.XVel = f.Body.RelativeF(ctx.Def.WalkInitVel)
	}
	target := in.StickX.Value * ctx.Def.WalkMaxVel
	if f.Body.XVel < target {
		f.Body.XVel = math.Min(f.Body.XVel+ctx.Def.WalkAcc, target)
	} else {
		f.Body.XVel = math.Max(f.Body.XVel-ctx.Def.WalkAcc, target)
	}
	return nil
}

// aerialStep handles drift, fastfall and air jumps.
func (f *Fighter) aerialStep(ctx *StepContext) {
	in := ctx.Input
	b := &f.Body
	def := ctx.Def
	if in == nil {
		b.XVel = decay(b.XVel, def.AirFriction)
		return
	}

	if jumpPressed(ctx) && f.AirJumpsLeft > 0 {
		f.AirJumpsLeft--
		f.Fastfalled = false
		b.YVel = def.JumpYInitVel
		b.XVel = clampAbs(b.XVel+in.StickX.Value*def.JumpXInitVel, airXTermVel(def))
	}

	if b.YVel < 0.0 && in.StickY.Value < fastfallThreshold && in.StickY.Diff < -0.1 {
		f.Fastfalled = true
	}

	stick := in.StickX.Value
	if stick == 0.0 {
		b.XVel = decay(b.XVel, def.AirFriction)
		return
	}
	accel := def.AirMobilityA*stick + def.AirMobilityB*signum(stick)
	b.XVel = clampAbs(b.XVel+accel, airXTermVel(def))
}

func (f *Fighter) ledgeOptions(ctx *StepContext, state *ActionState) *actionResult {
	in := ctx.Input
	if in == nil {
		return nil
	}
	b := &f.Body
	pos := b.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)

	if jumpPressed(ctx) {
		b.Location = Airborne{X: pos.X, Y: pos.Y}
		b.YVel = ctx.Def.JumpYInitVel
		b.FramesSinceLedge = 0
		return setAction(entitydef.ActionFall)
	}
	relStick := b.RelativeF(in.StickX.Value)
	if relStick < -0.5 || in.StickY.Value < -0.5 {
		b.Location = Airborne{X: pos.X, Y: pos.Y}
		b.YVel = 0.0
		b.FramesSinceLedge = 0
		return setAction(entitydef.ActionFall)
	}
	return nil
}

func (f *Fighter) grabEscapeStep(ctx *StepContext, state *ActionState) *actionResult {
	loc, ok := f.Body.Location.(GrabbedByEntity)
	if !ok {
		return setAction(entitydef.ActionFall)
	}
	holder := ctx.Entities.Get(loc.Holder)
	holderGone := holder == nil
	if !holderGone {
		holderDef := (*holder).Def(ctx.Defs)
		if holderDef != nil && (*holder).State.ActionName(holderDef) != entitydef.ActionGrabbingIdle {
			holderGone = true
		}
	}
	if holderGone || state.FrameNoRestart > grabEscapeFrames {
		pos := f.Body.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)
		f.Body.Location = Airborne{X: pos.X, Y: pos.Y}
		if !holderGone {
			ctx.SendMessage(loc.Holder, MessageGrabReleased{})
		}
		return setAction(entitydef.ActionFall)
	}
	return nil
}

func (f *Fighter) shieldBreak(ctx *StepContext, state *ActionState) *actionResult {
	b := &f.Body
	pos := b.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)
	b.Location = Airborne{X: pos.X, Y: pos.Y + 0.0001}
	breakVel := shieldBreakStun / 20.0
	if ctx.Def.Shield != nil && ctx.Def.Shield.BreakVel > 0.0 {
		breakVel = ctx.Def.Shield.BreakVel
	}
	b.YVel = breakVel
	b.XVel = 0.0
	f.ShieldHp = 0.0
	f.Hitstun = shieldBreakStun
	return setAction(entitydef.ActionDamageFall)
}

func (f *Fighter) actionExpired(ctx *StepContext, state *ActionState) *actionResult {
	switch state.ActionName(ctx.Def) {
	case entitydef.ActionSpawn, entitydef.ActionLand, entitydef.ActionJab,
		entitydef.ActionShieldOff, entitydef.ActionItemThrow, entitydef.ActionItemGrab:
		return setAction(entitydef.ActionIdle)
	case entitydef.ActionJumpSquat:
		return f.jump(ctx)
	case entitydef.ActionShieldOn:
		return setAction(entitydef.ActionShield)
	case entitydef.ActionDamage:
		if f.Hitstun > 0.0 {
			return nil
		}
		return setAction(entitydef.ActionIdle)
	case entitydef.ActionLedgeGrab:
		return setAction(entitydef.ActionLedgeIdle)
	default:
		return nil
	}
}

// jump leaves the ground at jumpsquat's end. Releasing the jump button
// during the squat gives a short hop.
func (f *Fighter) jump(ctx *StepContext) *actionResult {
	b := &f.Body
	pos := b.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)
	b.Location = Airborne{X: pos.X, Y: pos.Y + 0.0001}

	vel := ctx.Def.JumpYInitVel
	if in := ctx.Input; in != nil {
		if !in.X.Value && !in.Y.Value {
			vel *= shortHopMult
		}
		b.XVel = clampAbs(b.XVel+in.StickX.Value*ctx.Def.JumpXInitVel, airXTermVel(ctx.Def))
	}
	b.YVel = vel
	return setAction(entitydef.ActionFall)
}

func (f *Fighter) physicsStep(ctx *StepContext, state *ActionState) *actionResult {
	def := ctx.Def
	b := &f.Body

	if b.Airbourne() {
		term := def.TerminalVel
		if f.Fastfalled && def.FastfallTerminalVel != 0.0 {
			term = def.FastfallTerminalVel
		}
		b.YVel = math.Max(b.YVel+def.Gravity, term)
	}

	frame := state.CurrentFrame(def)
	applyFrameVelModify(b, frame)

	switch b.PhysicsStep(ctx, frame) {
	case PhysicsLand:
		return f.land(ctx, state)
	case PhysicsFall:
		return f.fall(ctx, state)
	case PhysicsTeeter:
		if state.ActionName(def) == entitydef.ActionTeeter {
			return nil
		}
		return setAction(entitydef.ActionTeeter)
	case PhysicsLedgeGrab:
		f.AirJumpsLeft = def.AirJumps
		f.Fastfalled = false
		f.Hitstun = 0.0
		return setAction(entitydef.ActionLedgeGrab)
	case PhysicsOutOfBounds:
		return f.die(ctx, state)
	}
	return nil
}

func applyFrameVelModify(b *Body, frame *entitydef.ActionFrame) {
	if frame == nil {
		return
	}
	switch frame.XVelModify.Kind {
	case entitydef.VelModifySet:
		b.XVel = b.RelativeF(frame.XVelModify.Value)
	case entitydef.VelModifyAdd:
		b.XVel += b.RelativeF(frame.XVelModify.Value)
	}
	b.YVel = frame.YVelModify.Apply(b.YVel)
}

func (f *Fighter) land(ctx *StepContext, state *ActionState) *actionResult {
	f.AirJumpsLeft = ctx.Def.AirJumps
	f.Fastfalled = false
	f.Hitstun = 0.0
	return setAction(entitydef.ActionLand)
}

func (f *Fighter) fall(ctx *StepContext, state *ActionState) *actionResult {
	switch state.ActionName(ctx.Def) {
	case entitydef.ActionFall, entitydef.ActionDamageFall, entitydef.ActionDamageFly:
		return nil
	case entitydef.ActionDamage:
		return setAction(entitydef.ActionDamageFall)
	default:
		return setAction(entitydef.ActionFall)
	}
}

// die removes a stock. With stocks left the fighter respawns; otherwise it
// leaves the match.
func (f *Fighter) die(ctx *StepContext, state *ActionState) *actionResult {
	f.Stocks--
	if ctx.Entities.Contains(f.HeldItem) {
		ctx.SendMessage(f.HeldItem, MessageItemDropped{})
		f.HeldItem = EntityKey{}
	}
	f.Grabbing = EntityKey{}

	if f.Stocks <= 0 {
		ctx.DeleteSelf()
		return setAction(entitydef.ActionEliminated)
	}

	spawns := ctx.Stage.Spawns
	spawn := stage.SpawnPoint{FaceRight: true}
	if len(spawns) > 0 {
		spawn = spawns[f.PlayerI%len(spawns)]
	}
	f.Body = NewBody(spawn.X, spawn.Y+10.0, spawn.FaceRight)
	f.Hitstun = 0.0
	f.Fastfalled = false
	f.AirJumpsLeft = ctx.Def.AirJumps
	return setAction(entitydef.ActionSpawn)
}

func (f *Fighter) stepCollision(ctx *StepContext, state *ActionState, results []CollisionResult) *actionResult {
	// every result in the list lands; when several ask for a transition the
	// last one wins
	var out *actionResult
	for _, result := range results {
		switch r := result.(type) {
		case HitDef:
			out = f.takeHit(ctx, state, r)
		case ShieldHitDef:
			if r.PowerShield {
				continue
			}
			f.ShieldHp -= r.Hitbox.Damage + r.Hitbox.ShieldDamage
			state.Hitlag = Hitlag{Kind: HitlagAttack, Counter: hitlagCounter(r.Hitbox.Damage)}
			if f.ShieldHp <= 0.0 {
				out = f.shieldBreak(ctx, state)
			}
		case PhantomDef:
			// half damage, no knockback
			f.Body.Damage += r.Hitbox.Damage * 0.5
		case GrabDef:
			f.Body.Location = GrabbedByEntity{Holder: r.AttackKey}
			f.Body.XVel = 0.0
			f.Body.YVel = 0.0
			f.Body.KbXVel = 0.0
			f.Body.KbYVel = 0.0
			out = setAction(entitydef.ActionGrabbedIdle)
		case GrabAtk:
			f.Grabbing = r.DefendKey
			out = setAction(entitydef.ActionGrabbingIdle)
		case Clang:
			if r.Rebound {
				out = setAction(entitydef.ActionIdle)
			}
		}
	}
	return out
}

// takeHit runs the full launch pipeline for a received hit. Velocities are
// staged on the body and commit when hitlag ends; the action and damage
// change right away.
func (f *Fighter) takeHit(ctx *StepContext, state *ActionState, hit HitDef) *actionResult {
	atkPos := f.Body.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)
	atkFaceRight := true
	if atk := ctx.Entities.Get(hit.AttackKey); atk != nil {
		atkPos = (*atk).Pos(ctx.Entities, ctx.Defs, ctx.Surfaces)
		atkFaceRight = (*atk).FaceRight()
	}

	kbVel := f.Body.Launch(ctx, hit.Hitbox, hit.Hurtbox, atkPos, atkFaceRight, ctx.Def.Weight, false)

	if hit.Hitbox.HitstunFrames > 0 {
		f.Hitstun = float64(hit.Hitbox.HitstunFrames)
	} else {
		f.Hitstun = hit.Hitbox.HitstunTimesKnockback * kbVel
	}
	state.Hitlag = Hitlag{Kind: HitlagLaunch, Counter: hitlagCounter(hit.Hitbox.Damage)}

	if ctx.Entities.Contains(f.HeldItem) {
		ctx.SendMessage(f.HeldItem, MessageItemDropped{})
		f.HeldItem = EntityKey{}
	}

	if kbVel > 80.0 {
		return setAction(entitydef.ActionDamageFly)
	}
	return setAction(entitydef.ActionDamage)
}

func (f *Fighter) processMessage(ctx *StepContext, state *ActionState, msg MessageContents) *actionResult {
	switch msg.(type) {
	case MessageGrabReleased:
		f.Grabbing = EntityKey{}
		if state.ActionName(ctx.Def) == entitydef.ActionGrabbingIdle {
			return setAction(entitydef.ActionIdle)
		}
	}
	return nil
}
