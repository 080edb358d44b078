// Package blshost is a reference bls host for running compiled guests
// outside the network. It executes a wasip1 module with wazero, binds the
// seven bls host modules to pluggable backends (normally the blstest fakes)
// and captures what the guest writes.
//
// Guest stderr lines produced by the log package are decoded and re-emitted
// through a zap logger; everything else is returned verbatim in the Result.
package blshost
