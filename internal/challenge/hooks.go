package challenge

import "fmt"

// Hook registries let declarative room content refer to code hooks by
// name. Registration happens during init, before any loader runs, so no
// locking is needed.
var (
	setupHooks    = map[string]SetupFunc{}
	validateHooks = map[string]ValidateFunc{}
)

func RegisterSetupHook(name string, fn SetupFunc) {
	if _, ok := setupHooks[name]; ok {
		panic(fmt.Sprintf("challenge: setup hook %q registered twice", name))
	}
	setupHooks[name] = fn
}

func RegisterValidateHook(name string, fn ValidateFunc) {
	if _, ok := validateHooks[name]; ok {
		panic(fmt.Sprintf("challenge: validate hook %q registered twice", name))
	}
	validateHooks[name] = fn
}

func SetupHook(name string) (SetupFunc, bool) {
	fn, ok := setupHooks[name]
	return fn, ok
}

func ValidateHook(name string) (ValidateFunc, bool) {
	fn, ok := validateHooks[name]
	return fn, ok
}
