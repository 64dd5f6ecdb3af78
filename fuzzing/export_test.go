package fuzzing

// RunEntry runs check the way the go-fuzz entry points do.
var RunEntry = fuzz
