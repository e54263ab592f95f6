package salesforce

import (
	"strings"

	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
)

// ResolveAddress picks the instance address for one invocation: an explicit
// per-request override wins over the environment default. Exactly one
// trailing slash is stripped so path joins stay predictable.
func ResolveAddress(override string, fallback string) (string, error) {
	address := strings.TrimSpace(override)
	if address == "" {
		address = strings.TrimSpace(fallback)
	}
	if address == "" {
		return "", core.NewNoAddressError()
	}
	return strings.TrimSuffix(address, "/"), nil
}
