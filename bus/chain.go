package bus

import (
	"net"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/item/inventory"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/player/skin"
	"github.com/df-mc/dragonfly/server/session"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

// cancellable is satisfied by the event contexts of all handler taxonomies.
// Once a listener cancels an event, the rest of the chain and the base
// handler are skipped.
type cancellable interface {
	Cancelled() bool
}

// PlayerHandler returns a player.Handler that fans every player event out to
// the subscribed listeners. Install it with player.Player.Handle.
func (h *Hub) PlayerHandler() player.Handler {
	return h.WrapPlayer(nil)
}

// WrapPlayer returns a fan-out player.Handler that forwards to base after the
// subscribed listeners have run. A nil base is replaced by player.NopHandler;
// wrapping a handler that is already a chain of this hub rewraps its base.
func (h *Hub) WrapPlayer(base player.Handler) player.Handler {
	if c, ok := base.(playerChain); ok {
		base = c.base
	}
	if base == nil {
		base = player.NopHandler{}
	}
	return playerChain{hub: h, base: base}
}

// WorldHandler returns a world.Handler fanning world events out to the
// subscribed listeners. Install it with world.World.Handle.
func (h *Hub) WorldHandler() world.Handler {
	return h.WrapWorld(nil)
}

// WrapWorld is the world.Handler counterpart of WrapPlayer.
func (h *Hub) WrapWorld(base world.Handler) world.Handler {
	if c, ok := base.(worldChain); ok {
		base = c.base
	}
	if base == nil {
		base = world.NopHandler{}
	}
	return worldChain{hub: h, base: base}
}

// InventoryHandler returns an inventory.Handler fanning inventory events out
// to the subscribed listeners. Install it with inventory.Inventory.Handle.
func (h *Hub) InventoryHandler() inventory.Handler {
	return h.WrapInventory(nil)
}

// WrapInventory is the inventory.Handler counterpart of WrapPlayer.
func (h *Hub) WrapInventory(base inventory.Handler) inventory.Handler {
	if c, ok := base.(inventoryChain); ok {
		base = c.base
	}
	if base == nil {
		base = inventory.NopHandler{}
	}
	return inventoryChain{hub: h, base: base}
}

type playerChain struct {
	hub  *Hub
	base player.Handler
}

func (c playerChain) callCtx(ctx cancellable, fn func(player.Handler)) {
	for _, reg := range c.hub.playerRegs() {
		handler := reg.handler
		c.hub.invoke(reg.owner, reg.listener, func() {
			fn(handler)
		})
		if ctx.Cancelled() {
			return
		}
	}
	fn(c.base)
}

func (c playerChain) call(fn func(player.Handler)) {
	for _, reg := range c.hub.playerRegs() {
		handler := reg.handler
		c.hub.invoke(reg.owner, reg.listener, func() {
			fn(handler)
		})
	}
	fn(c.base)
}

func (c playerChain) HandleMove(ctx *player.Context, newPos mgl64.Vec3, newRot cube.Rotation) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleMove(ctx, newPos, newRot) })
}

func (c playerChain) HandleJump(p *player.Player) {
	c.call(func(h player.Handler) { h.HandleJump(p) })
}

func (c playerChain) HandleTeleport(ctx *player.Context, pos mgl64.Vec3) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleTeleport(ctx, pos) })
}

func (c playerChain) HandleChangeWorld(p *player.Player, before, after *world.World) {
	c.call(func(h player.Handler) { h.HandleChangeWorld(p, before, after) })
}

func (c playerChain) HandleToggleSprint(ctx *player.Context, after bool) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleToggleSprint(ctx, after) })
}

func (c playerChain) HandleToggleSneak(ctx *player.Context, after bool) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleToggleSneak(ctx, after) })
}

func (c playerChain) HandleChat(ctx *player.Context, message *string) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleChat(ctx, message) })
}

func (c playerChain) HandleFoodLoss(ctx *player.Context, from int, to *int) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleFoodLoss(ctx, from, to) })
}

func (c playerChain) HandleHeal(ctx *player.Context, health *float64, src world.HealingSource) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleHeal(ctx, health, src) })
}

func (c playerChain) HandleHurt(ctx *player.Context, damage *float64, immune bool, attackImmunity *time.Duration, src world.DamageSource) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleHurt(ctx, damage, immune, attackImmunity, src) })
}

func (c playerChain) HandleDeath(p *player.Player, src world.DamageSource, keepInv *bool) {
	c.call(func(h player.Handler) { h.HandleDeath(p, src, keepInv) })
}

func (c playerChain) HandleRespawn(p *player.Player, pos *mgl64.Vec3, w **world.World) {
	c.call(func(h player.Handler) { h.HandleRespawn(p, pos, w) })
}

func (c playerChain) HandleSkinChange(ctx *player.Context, sk *skin.Skin) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleSkinChange(ctx, sk) })
}

func (c playerChain) HandleFireExtinguish(ctx *player.Context, pos cube.Pos) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleFireExtinguish(ctx, pos) })
}

func (c playerChain) HandleStartBreak(ctx *player.Context, pos cube.Pos) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleStartBreak(ctx, pos) })
}

func (c playerChain) HandleBlockBreak(ctx *player.Context, pos cube.Pos, drops *[]item.Stack, xp *int) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleBlockBreak(ctx, pos, drops, xp) })
}

func (c playerChain) HandleBlockPlace(ctx *player.Context, pos cube.Pos, b world.Block) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleBlockPlace(ctx, pos, b) })
}

func (c playerChain) HandleBlockPick(ctx *player.Context, pos cube.Pos, b world.Block) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleBlockPick(ctx, pos, b) })
}

func (c playerChain) HandleItemUse(ctx *player.Context) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleItemUse(ctx) })
}

func (c playerChain) HandleItemUseOnBlock(ctx *player.Context, pos cube.Pos, face cube.Face, clickPos mgl64.Vec3) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleItemUseOnBlock(ctx, pos, face, clickPos) })
}

func (c playerChain) HandleItemUseOnEntity(ctx *player.Context, e world.Entity) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleItemUseOnEntity(ctx, e) })
}

func (c playerChain) HandleItemRelease(ctx *player.Context, it item.Stack, dur time.Duration) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleItemRelease(ctx, it, dur) })
}

func (c playerChain) HandleItemConsume(ctx *player.Context, it item.Stack) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleItemConsume(ctx, it) })
}

func (c playerChain) HandleAttackEntity(ctx *player.Context, e world.Entity, force, height *float64, critical *bool) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleAttackEntity(ctx, e, force, height, critical) })
}

func (c playerChain) HandleExperienceGain(ctx *player.Context, amount *int) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleExperienceGain(ctx, amount) })
}

func (c playerChain) HandlePunchAir(ctx *player.Context) {
	c.callCtx(ctx, func(h player.Handler) { h.HandlePunchAir(ctx) })
}

func (c playerChain) HandleSignEdit(ctx *player.Context, pos cube.Pos, frontSide bool, oldText, newText string) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleSignEdit(ctx, pos, frontSide, oldText, newText) })
}

func (c playerChain) HandleLecternPageTurn(ctx *player.Context, pos cube.Pos, oldPage int, newPage *int) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleLecternPageTurn(ctx, pos, oldPage, newPage) })
}

func (c playerChain) HandleItemDamage(ctx *player.Context, it item.Stack, damage int) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleItemDamage(ctx, it, damage) })
}

func (c playerChain) HandleItemPickup(ctx *player.Context, it *item.Stack) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleItemPickup(ctx, it) })
}

func (c playerChain) HandleHeldSlotChange(ctx *player.Context, from, to int) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleHeldSlotChange(ctx, from, to) })
}

func (c playerChain) HandleItemDrop(ctx *player.Context, it item.Stack) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleItemDrop(ctx, it) })
}

func (c playerChain) HandleTransfer(ctx *player.Context, addr *net.UDPAddr) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleTransfer(ctx, addr) })
}

func (c playerChain) HandleCommandExecution(ctx *player.Context, command cmd.Command, args []string) {
	c.callCtx(ctx, func(h player.Handler) { h.HandleCommandExecution(ctx, command, args) })
}

func (c playerChain) HandleQuit(p *player.Player) {
	c.call(func(h player.Handler) { h.HandleQuit(p) })
}

func (c playerChain) HandleDiagnostics(p *player.Player, d session.Diagnostics) {
	c.call(func(h player.Handler) { h.HandleDiagnostics(p, d) })
}

type worldChain struct {
	hub  *Hub
	base world.Handler
}

func (c worldChain) callCtx(ctx cancellable, fn func(world.Handler)) {
	for _, reg := range c.hub.worldRegs() {
		handler := reg.handler
		c.hub.invoke(reg.owner, reg.listener, func() {
			fn(handler)
		})
		if ctx.Cancelled() {
			return
		}
	}
	fn(c.base)
}

func (c worldChain) call(fn func(world.Handler)) {
	for _, reg := range c.hub.worldRegs() {
		handler := reg.handler
		c.hub.invoke(reg.owner, reg.listener, func() {
			fn(handler)
		})
	}
	fn(c.base)
}

func (c worldChain) HandleLiquidFlow(ctx *world.Context, from, into cube.Pos, liquid world.Liquid, replaced world.Block) {
	c.callCtx(ctx, func(h world.Handler) { h.HandleLiquidFlow(ctx, from, into, liquid, replaced) })
}

func (c worldChain) HandleLiquidDecay(ctx *world.Context, pos cube.Pos, before, after world.Liquid) {
	c.callCtx(ctx, func(h world.Handler) { h.HandleLiquidDecay(ctx, pos, before, after) })
}

func (c worldChain) HandleLiquidHarden(ctx *world.Context, hardenedPos cube.Pos, liquidHardened, otherLiquid, newBlock world.Block) {
	c.callCtx(ctx, func(h world.Handler) { h.HandleLiquidHarden(ctx, hardenedPos, liquidHardened, otherLiquid, newBlock) })
}

func (c worldChain) HandleSound(ctx *world.Context, s world.Sound, pos mgl64.Vec3) {
	c.callCtx(ctx, func(h world.Handler) { h.HandleSound(ctx, s, pos) })
}

func (c worldChain) HandleFireSpread(ctx *world.Context, from, to cube.Pos) {
	c.callCtx(ctx, func(h world.Handler) { h.HandleFireSpread(ctx, from, to) })
}

func (c worldChain) HandleBlockBurn(ctx *world.Context, pos cube.Pos) {
	c.callCtx(ctx, func(h world.Handler) { h.HandleBlockBurn(ctx, pos) })
}

func (c worldChain) HandleCropTrample(ctx *world.Context, pos cube.Pos) {
	c.callCtx(ctx, func(h world.Handler) { h.HandleCropTrample(ctx, pos) })
}

func (c worldChain) HandleLeavesDecay(ctx *world.Context, pos cube.Pos) {
	c.callCtx(ctx, func(h world.Handler) { h.HandleLeavesDecay(ctx, pos) })
}

func (c worldChain) HandleEntitySpawn(tx *world.Tx, e world.Entity) {
	c.call(func(h world.Handler) { h.HandleEntitySpawn(tx, e) })
}

func (c worldChain) HandleEntityDespawn(tx *world.Tx, e world.Entity) {
	c.call(func(h world.Handler) { h.HandleEntityDespawn(tx, e) })
}

func (c worldChain) HandleExplosion(ctx *world.Context, position mgl64.Vec3, entities *[]world.Entity, blocks *[]cube.Pos, itemDropChance *float64, spawnFire *bool) {
	c.callCtx(ctx, func(h world.Handler) { h.HandleExplosion(ctx, position, entities, blocks, itemDropChance, spawnFire) })
}

func (c worldChain) HandleClose(tx *world.Tx) {
	c.call(func(h world.Handler) { h.HandleClose(tx) })
}

type inventoryChain struct {
	hub  *Hub
	base inventory.Handler
}

func (c inventoryChain) callCtx(ctx cancellable, fn func(inventory.Handler)) {
	for _, reg := range c.hub.inventoryRegs() {
		handler := reg.handler
		c.hub.invoke(reg.owner, reg.listener, func() {
			fn(handler)
		})
		if ctx.Cancelled() {
			return
		}
	}
	fn(c.base)
}

func (c inventoryChain) HandleTake(ctx *inventory.Context, slot int, it item.Stack) {
	c.callCtx(ctx, func(h inventory.Handler) { h.HandleTake(ctx, slot, it) })
}

func (c inventoryChain) HandlePlace(ctx *inventory.Context, slot int, it item.Stack) {
	c.callCtx(ctx, func(h inventory.Handler) { h.HandlePlace(ctx, slot, it) })
}

func (c inventoryChain) HandleDrop(ctx *inventory.Context, slot int, it item.Stack) {
	c.callCtx(ctx, func(h inventory.Handler) { h.HandleDrop(ctx, slot, it) })
}
