package recognition

import "context"

type disabledOracle struct{}

// NewDisabledOracle returns an oracle that refuses every request with
// ErrDisabled.
func NewDisabledOracle() *disabledOracle {
	return &disabledOracle{}
}

func (disabledOracle) Enabled() bool {
	return false
}

func (disabledOracle) IndexFaces(context.Context, []byte, string) (*IndexResult, error) {
	return nil, ErrDisabled
}

func (disabledOracle) SearchFace(context.Context, []byte, float64) (*Match, error) {
	return nil, ErrDisabled
}

func (disabledOracle) DeleteFaces(context.Context, ...string) error {
	return ErrDisabled
}

func (disabledOracle) EnsureCollection(context.Context) (bool, error) {
	return false, ErrDisabled
}

func (disabledOracle) DescribeCollection(context.Context) (*CollectionInfo, error) {
	return nil, ErrDisabled
}

func (disabledOracle) ListFaces(context.Context, func([]Face) error) error {
	return ErrDisabled
}
