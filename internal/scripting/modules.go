package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/kikitora/spacejourney/internal/game/trigger"
)

// RegisterModules registers the engine.* Lua tables into L:
//
//	engine.log.debug/info/warn/error(msg)
//	engine.roll(expr) -> {total, dice, modifier} | nil, err
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	logTbl := L.NewTable()
	logAt := func(fn func(string, ...zap.Field)) lua.LGFunction {
		return func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}
	}
	L.SetField(logTbl, "debug", L.NewFunction(logAt(m.logger.Debug)))
	L.SetField(logTbl, "info", L.NewFunction(logAt(m.logger.Info)))
	L.SetField(logTbl, "warn", L.NewFunction(logAt(m.logger.Warn)))
	L.SetField(logTbl, "error", L.NewFunction(logAt(m.logger.Error)))
	L.SetField(engine, "log", logTbl)

	L.SetField(engine, "roll", L.NewFunction(m.luaRoll))
	L.SetGlobal("engine", engine)
}

func (m *Manager) luaRoll(L *lua.LState) int {
	res, err := m.roller.RollExpr(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	out := L.NewTable()
	dice := L.NewTable()
	for _, d := range res.Dice {
		dice.Append(lua.LNumber(d))
	}
	L.SetField(out, "total", lua.LNumber(res.Total()))
	L.SetField(out, "dice", dice)
	L.SetField(out, "modifier", lua.LNumber(res.Modifier))
	L.Push(out)
	return 1
}

// contextTable exposes ctx as a read-only proxy table. Writes raise a Lua error.
func contextTable(L *lua.LState, ctx *trigger.Context) *lua.LTable {
	data := L.NewTable()
	if ctx != nil {
		set := func(k string, v lua.LValue) { L.SetField(data, k, v) }
		set("timing", lua.LString(ctx.Timing.String()))
		set("action_phase", lua.LNumber(ctx.ActionPhase))
		set("hp_source", lua.LNumber(ctx.HPSource))
		set("hp_delta", lua.LNumber(ctx.HPDelta))
		set("status_type", lua.LString(ctx.StatusType.String()))
		set("status_value", lua.LNumber(ctx.StatusValue))
		set("status_duration", lua.LNumber(ctx.StatusDuration))
		set("used_skill_id", lua.LString(ctx.UsedSkillID))
		set("self_hp_rate", lua.LNumber(ctx.SelfHPRate))
		set("other_hp_rate", lua.LNumber(ctx.OtherHPRate))
		set("self_moved", lua.LBool(ctx.SelfMoved))
		set("other_has_any_status", lua.LBool(ctx.OtherHasAnyStatus))
		set("other_has_debuff", lua.LBool(ctx.OtherHasDebuff))
		set("enemy_count", lua.LNumber(ctx.EnemyCount))
		set("ally_count", lua.LNumber(ctx.AllyCount))
		set("used_skill_is_basic", lua.LBool(ctx.UsedSkillIsBasic))
		set("used_skill_tags", lua.LNumber(ctx.UsedSkillTags))
		set("used_skill_is_body_skill", lua.LBool(ctx.UsedSkillIsBodySkill))
		set("used_skill_is_weapon_skill", lua.LBool(ctx.UsedSkillIsWeaponSkill))
		if ctx.Self != nil {
			set("self_id", lua.LString(ctx.Self.ID()))
			set("self_hp", lua.LNumber(ctx.Self.HP()))
		}
		if ctx.Other != nil {
			set("other_id", lua.LString(ctx.Other.ID()))
			set("other_hp", lua.LNumber(ctx.Other.HP()))
		}
	}

	proxy := L.NewTable()
	meta := L.NewTable()
	L.SetField(meta, "__index", data)
	L.SetField(meta, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("trigger context is read-only")
		return 0
	}))
	L.SetField(meta, "__metatable", lua.LFalse)
	L.SetMetatable(proxy, meta)
	return proxy
}
