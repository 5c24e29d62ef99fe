package flags

// Spawn attribute bits as defined by Darwin's <spawn.h>. The OSX_* and
// underscore-prefixed values are private to Apple (bsd/sys/spawn.h) and are
// hard-coded here because no public header exports them.
const (
	ResetIDs       int16 = 0x0001
	SetPGroup      int16 = 0x0002
	SetSigDef      int16 = 0x0004
	SetSigMask     int16 = 0x0008
	SetExec        int16 = 0x0040
	StartSuspended int16 = 0x0080
	CloexecDefault int16 = 0x4000

	OSXTalAppStart   int16 = 0x0400
	OSXWidgetStart   int16 = 0x0800
	OSXDBClientStart int16 = 0x0800
	OSXResvAppStart  int16 = 0x1000
	DisableASLR      int16 = 0x0100
	AllowDataExec    int16 = 0x2000
)

// Constant is a named spawn attribute flag.
type Constant struct {
	Name  string
	Value int16
}

// table is the lookup order used by Parse. Names must stay unique; when two
// entries share a value (WIDGET and DBCLIENT) both names resolve.
var table = [...]Constant{
	{Name: "POSIX_SPAWN_RESETIDS", Value: ResetIDs},
	{Name: "POSIX_SPAWN_SETPGROUP", Value: SetPGroup},
	{Name: "POSIX_SPAWN_SETSIGDEF", Value: SetSigDef},
	{Name: "POSIX_SPAWN_SETSIGMASK", Value: SetSigMask},
	{Name: "POSIX_SPAWN_SETEXEC", Value: SetExec},
	{Name: "POSIX_SPAWN_START_SUSPENDED", Value: StartSuspended},
	{Name: "POSIX_SPAWN_CLOEXEC_DEFAULT", Value: CloexecDefault},
	// Private constants.
	{Name: "POSIX_SPAWN_OSX_TALAPP_START", Value: OSXTalAppStart},
	{Name: "POSIX_SPAWN_OSX_WIDGET_START", Value: OSXWidgetStart},
	{Name: "POSIX_SPAWN_OSX_DBCLIENT_START", Value: OSXDBClientStart},
	{Name: "POSIX_SPAWN_OSX_RESVAPP_START", Value: OSXResvAppStart},
	{Name: "_POSIX_SPAWN_DISABLE_ASLR", Value: DisableASLR},
	{Name: "_POSIX_SPAWN_ALLOW_DATA_EXEC", Value: AllowDataExec},
}

// Table returns a copy of the supported constants in lookup order.
func Table() []Constant {
	out := make([]Constant, len(table))
	copy(out, table[:])
	return out
}

// Lookup returns the value of the first constant named exactly name.
func Lookup(name string) (int16, bool) {
	return lookup(name, table[:])
}

func lookup(name string, consts []Constant) (int16, bool) {
	for _, c := range consts {
		if c.Name == name {
			return c.Value, true
		}
	}
	return 0, false
}

// Names returns the names of every constant whose bits are all set in mask,
// in table order.
func Names(mask int16) []string {
	var out []string
	for _, c := range table {
		if c.Value != 0 && mask&c.Value == c.Value {
			out = append(out, c.Name)
		}
	}
	return out
}

// Unknown returns the bits of mask not covered by any constant.
func Unknown(mask int16) int16 {
	var known int16
	for _, c := range table {
		known |= c.Value
	}
	return mask &^ known
}
