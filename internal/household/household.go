// Package household derives the grouping key that ties members, annual fees,
// and payments to one physical residence.
package household

import "strings"

// Key builds the household key for an address and optional unit number.
// Members with equal keys share one household and one annual assessment.
func Key(address, unitNumber string) string {
	address = strings.TrimSpace(address)
	unitNumber = strings.TrimSpace(unitNumber)
	if unitNumber == "" {
		return address
	}
	return address + " Unit " + unitNumber
}
