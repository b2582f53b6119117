package request

import "errors"

type UpdateProviderRequest struct {
	Enabled *bool `json:"enabled"`
}

func (r *UpdateProviderRequest) Validate() error {
	if r.Enabled == nil {
		return errors.New("enabled is required")
	}
	return nil
}
