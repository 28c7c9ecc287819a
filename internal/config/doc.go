// Package config loads keymotion settings.
//
// Settings come from, in increasing precedence:
//
//  1. Built-in defaults (Default)
//  2. A TOML file (Load)
//  3. Environment variables (ApplyEnv)
//
// Example file:
//
//	[log]
//	level = "debug"
//
//	[editor]
//	word_separators = "`~!@#$%^&*()-=+[{]}\\|;:'\",.<>/?"
//
//	[dispatcher]
//	recover_from_panic = true
//	max_repeat_count = 10000
//	metrics = false
//
//	[plugins]
//	scripts = ["commands.lua", "scripts/"]
//	timeout = "5s"
//
// Unknown keys are rejected. Relative plugin paths are resolved against the
// directory of the file that names them.
package config
