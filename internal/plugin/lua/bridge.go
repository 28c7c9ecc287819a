package lua

import (
	"fmt"
	"math"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// Bridge converts values between Go and Lua.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a new Bridge for the given Lua state.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToGoValue converts a Lua value to a Go value.
// Integral numbers become int64, other numbers float64. Tables with keys
// 1..n become []any, other tables map[string]any. Functions become nil.
func (b *Bridge) ToGoValue(lv lua.LValue) any {
	return b.toGo(lv, make(map[*lua.LTable]bool))
}

func (b *Bridge) toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return b.tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

// tableToGo converts a table to a slice when its keys are exactly 1..n.
func (b *Bridge) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && count == n {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = b.toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprint(float64(kv))
		default:
			key = k.String()
		}
		m[key] = b.toGo(v, visited)
	})
	return m
}

// ToLuaValue converts a Go value to a Lua value. Unsupported types become
// userdata.
func (b *Bridge) ToLuaValue(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := b.L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, b.ToLuaValue(item))
		}
		return t
	case []string:
		t := b.L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, lua.LString(item))
		}
		return t
	case map[string]any:
		return b.MapToTable(val)
	case lua.LValue:
		return val
	default:
		ud := b.L.NewUserData()
		ud.Value = v
		return ud
	}
}

// MapToTable converts a map to a Lua table. Keys are set in sorted order so
// that iteration in scripts is reproducible.
func (b *Bridge) MapToTable(m map[string]any) *lua.LTable {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := b.L.NewTable()
	for _, k := range keys {
		t.RawSetString(k, b.ToLuaValue(m[k]))
	}
	return t
}
