// Package line defines the data model shared by every stage of the line
// planning pipeline.
//
// # Overview
//
// A sewing line is described by an operation bulletin: an ordered list of
// [Operation] records, each tagged with the garment section it belongs to.
// The balancer turns operations into [Requirement] values (how many machines
// each operation needs), and the floor generator turns requirements into a
// flat list of [MachineInstance] values with positions, orientations and lane
// assignments. A [Record] bundles all of it together with the planning
// parameters so that it can be persisted and reloaded verbatim.
//
// # Lifecycle
//
// Operations are created once per parse and never mutated. Requirements and
// machine instances are recomputed wholesale whenever operations or the
// planning parameters change; nothing in this package supports incremental
// updates.
//
// # Serialization
//
// All types carry JSON tags that match the field names the 3D viewer reads
// (op_no, machineIndex, isInspection, ...), and BSON tags for the MongoDB
// store. Use [WriteOperationsFile] / [ReadOperationsFile] and
// [WriteLayoutFile] / [ReadLayoutFile] for file round-trips.
package line
