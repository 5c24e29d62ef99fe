//go:build !windows && !linux && !(darwin && cgo)

package spawn

import (
	"os/exec"

	"github.com/AlexanderOMara/posixspawn/internal/flags"
)

const (
	supportedFlags = flags.ResetIDs | flags.SetPGroup | flags.SetSigDef | flags.SetSigMask |
		flags.SetExec | flags.CloexecDefault
	nativeSpawn = false
)

func startCmd(cmd *exec.Cmd, _ Plan) error { return cmd.Start() }

func prepareExec(Plan) error { return nil }
