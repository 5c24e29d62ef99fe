package spawn

import "github.com/AlexanderOMara/posixspawn/internal/flags"

// Plan is a mask broken down into the behaviours this platform applies.
// Flags this platform cannot honour are cleared and listed in Ignored.
type Plan struct {
	ResetIDs       bool
	SetPGroup      bool
	SetSigDef      bool
	SetSigMask     bool
	SetExec        bool
	Suspend        bool
	CloexecDefault bool
	DisableASLR    bool
	AllowDataExec  bool

	Ignored []string // names of known flags with no effect here
	Unknown int16    // bits that match no constant
}

// PlanFor translates mask for the current platform.
func PlanFor(mask int16) Plan {
	return planFor(mask, supportedFlags, nativeSpawn)
}

func planFor(mask, supported int16, native bool) Plan {
	unknown := flags.Unknown(mask)
	eff := mask & supported
	p := Plan{
		ResetIDs:       eff&flags.ResetIDs != 0,
		SetPGroup:      eff&flags.SetPGroup != 0,
		SetSigDef:      eff&flags.SetSigDef != 0,
		SetSigMask:     eff&flags.SetSigMask != 0,
		SetExec:        eff&flags.SetExec != 0,
		Suspend:        eff&flags.StartSuspended != 0,
		CloexecDefault: eff&flags.CloexecDefault != 0,
		DisableASLR:    eff&flags.DisableASLR != 0,
		AllowDataExec:  eff&flags.AllowDataExec != 0,
		Ignored:        flags.Names(mask &^ supported &^ unknown),
		Unknown:        unknown,
	}
	// Replacing our own image cannot start it stopped without the kernel's help.
	if !native && p.SetExec && p.Suspend {
		p.Suspend = false
		p.Ignored = append(p.Ignored, "POSIX_SPAWN_START_SUSPENDED")
	}
	return p
}
