package request

import (
	"fmt"

	"github.com/NeuralTrust/TrustMod/pkg/domain/trust"
)

type RecordActivityRequest struct {
	Kind string `json:"kind"`
}

func (r *RecordActivityRequest) Validate() error {
	switch trust.ActivityKind(r.Kind) {
	case trust.ActivityMessage, trust.ActivityToxic, trust.ActivitySpam:
		return nil
	}
	return fmt.Errorf("invalid activity kind %q", r.Kind)
}
