package core

// Version is the library version.  Release builds set it with
// -ldflags "-X github.com/hyperpolymath/betlang/core.Version=...".
var Version = "0.1.0"
