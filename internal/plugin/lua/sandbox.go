package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// ModuleName is the global and require name of the host bridge module.
const ModuleName = "keymotion"

// safeModules are the libraries require may return.
var safeModules = map[string]bool{
	"_G":     true,
	"string": true,
	"table":  true,
	"math":   true,
}

// installSandbox removes loaders and restricts require.
func installSandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	installSafeRequire(L)
}

// installSafeRequire clears the module search paths and replaces require
// with a version that only returns safe libraries and preloaded modules.
func installSafeRequire(L *lua.LState) {
	pkg, ok := L.GetGlobal("package").(*lua.LTable)
	if !ok {
		return
	}
	L.SetField(pkg, "path", lua.LString(""))
	L.SetField(pkg, "cpath", lua.LString(""))

	if loaded, ok := L.GetField(pkg, "loaded").(*lua.LTable); ok {
		var remove []string
		loaded.ForEach(func(k, _ lua.LValue) {
			if ks, ok := k.(lua.LString); ok && !safeModules[string(ks)] && string(ks) != "package" {
				remove = append(remove, string(ks))
			}
		})
		for _, key := range remove {
			loaded.RawSetString(key, lua.LNil)
		}
	}

	originalRequire := L.GetGlobal("require")
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !safeModules[name] && name != ModuleName {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(originalRequire)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}
