// Package access restricts the visible invoice set by requester role.
// This is the entire authorization model: a single role flag, no
// per-field redaction.
package access

import "nomina/internal/core"

// Filter returns the invoices the requesting user may see.
// Administrators see everything, including invoices whose owner could
// not be reconciled; everyone else sees only their own records. The
// input is never mutated.
func Filter(all []core.Invoice, requester core.User) []core.Invoice {
	if requester.IsAdmin() {
		out := make([]core.Invoice, len(all))
		copy(out, all)
		return out
	}
	var out []core.Invoice
	for _, inv := range all {
		if inv.OwnerID == requester.ID {
			out = append(out, inv)
		}
	}
	return out
}
