// Package marble holds the diagram model: observable and operator layers on
// a character grid, plus the higher-order links between parent markers and
// child observables.
//
// Positions are character offsets on a notation line; Y coordinates are
// layer indices in source order. A Diagram is build-once: layers are only
// appended, and links are valid only after Finalize.
package marble
