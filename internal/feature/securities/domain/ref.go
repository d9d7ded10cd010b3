package domain

import "strings"

// SecurityRef identifies a security either by its opaque store ID or by its
// ticker symbol. The reference is resolved once at the boundary; business
// logic below it never inspects which variant was supplied.
type SecurityRef struct {
	id     uint
	symbol string
}

// ByID returns a reference by opaque store ID.
func ByID(id uint) SecurityRef {
	return SecurityRef{id: id}
}

// BySymbol returns a reference by ticker symbol. The symbol is
// case-normalized to upper here so every consumer sees the natural key form.
func BySymbol(symbol string) SecurityRef {
	return SecurityRef{symbol: strings.ToUpper(strings.TrimSpace(symbol))}
}

// ID returns the store ID and whether this reference carries one.
func (r SecurityRef) ID() (uint, bool) {
	return r.id, r.id != 0
}

// Symbol returns the ticker symbol and whether this reference carries one.
func (r SecurityRef) Symbol() (string, bool) {
	return r.symbol, r.symbol != ""
}
