// Package chem tracks blast-furnace burden chemistry.
//
// Five components are tracked in a fixed order ([Fe], [SiO2], [CaO], [MgO],
// [Al2O3]). A [Library] maps material names to their [Material] analysis and
// bulk density; [Trends] blends those analyses by the discharge flow of a
// simulation run and [Assess] grades the result.
//
// # Division policy
//
// Blended trends skip time points whose total flow is at or below
// [FlowEpsilon] instead of emitting zeros. Basicity of a blend uses a 0.1
// floor on the acidic denominator; basicity of a single analysis is 0 when
// the denominator is 0.
package chem
