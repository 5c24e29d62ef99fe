//go:build windows

package spawn

const (
	supportedFlags int16 = 0
	nativeSpawn          = false
)

func (s *Spawner) start(Request, Plan) (*Child, error) {
	return nil, ErrUnsupported
}
