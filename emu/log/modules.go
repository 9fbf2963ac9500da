package log

type (
	Module     uint
	ModuleMask uint64
)

const ModuleMaskAll ModuleMask = 1<<64 - 1

const (
	ModConfig Module = iota + 1
	ModMem           // bank switching
	ModHwIo          // bus accesses
	ModVIC
	ModDisk
	ModShow
	ModInput
	ModUI
)

var (
	modNames  = []string{"?", "config", "mem", "hwio", "vic", "disk", "show", "input", "ui"}
	debugMask ModuleMask
	silenced  bool
)

// NewModule registers a module outside the standard ones. It must be called
// during package initialization.
func NewModule(name string) Module {
	modNames = append(modNames, name)
	return Module(len(modNames) - 1)
}

func ModuleByName(name string) (Module, bool) {
	for i := 1; i < len(modNames); i++ {
		if modNames[i] == name {
			return Module(i), true
		}
	}
	return 0, false
}

// ModuleNames returns the names of the registered modules, in registration
// order.
func ModuleNames() []string {
	return append([]string(nil), modNames[1:]...)
}

func EnableDebugModules(mask ModuleMask) {
	debugMask |= mask
}

// Disable silences every module, warnings and errors included.
func Disable() {
	silenced = true
}

func (mod Module) Mask() ModuleMask {
	return 1 << ModuleMask(mod)
}

func (mod Module) String() string {
	if int(mod) < len(modNames) {
		return modNames[mod]
	}
	return modNames[0]
}

func (mod Module) Enabled(lvl Level) bool {
	switch {
	case silenced:
		return false
	case lvl <= WarnLevel:
		return true
	}
	return debugMask&mod.Mask() != 0
}

func (mod Module) entry(lvl Level, msg string) *EntryZ {
	if !mod.Enabled(lvl) {
		return nil
	}
	e := entryPool.Get().(*EntryZ)
	e.mod, e.lvl, e.msg = mod, lvl, msg
	e.n = 0
	return e
}

func (mod Module) DebugZ(msg string) *EntryZ { return mod.entry(DebugLevel, msg) }
func (mod Module) InfoZ(msg string) *EntryZ  { return mod.entry(InfoLevel, msg) }
func (mod Module) WarnZ(msg string) *EntryZ  { return mod.entry(WarnLevel, msg) }
