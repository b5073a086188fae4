// Package battery implements the lumped-parameter thermal model of a
// multi-zone battery pack.
//
// The pack is a 1-D chain of thermally coupled zones. Each step applies
// I²R heat generation with Arrhenius-scaled internal resistance, conduction
// between adjacent zones, convection and T⁴ radiation to ambient, then an
// explicit forward-Euler temperature update clamped to the physical safety
// ceiling:
//
//   - [Pack.Advance]: one integration step
//   - [Pack.ApplyCooling]: installed strategy plus emergency fallback
//   - [Pack.Status]: per-zone overheat classification
//   - [Pack.Simulate]: full advance/cool loop returning the history
//
// # Update Order
//
// Zones update sequentially in index order within a step, so a zone's
// conduction terms see already-updated lower-index neighbours. Cooling
// converts power to a temperature delta without scaling by dt; Advance does
// scale by dt. Both behaviours are load-bearing for result compatibility.
package battery
