package testutil

// The inputs below follow the variant weights in package arbitrary with all
// features enabled and break if those change.

// NestedNotInput returns input the arbitrary generator reads as a SEARCH
// command tagged "a" with depth nested NOT keys around a flag key.
func NestedNotInput(depth int) []byte {
	input := []byte{
		0, // message: command
		1, // tag length
		'a',
		38, // command body: SEARCH
		0,  // no charset
	}
	for i := 0; i < depth; i++ {
		input = append(input, 4) // search key: NOT
	}
	return append(input,
		6, // search key: flag
		0, // ALL
		0, // not a UID search
	)
}

// LiteralInput returns input the arbitrary generator reads as a SELECT
// command tagged "a" whose mailbox name is a synchronizing literal holding
// payload. payload must be shorter than 256 bytes and contain no NUL.
func LiteralInput(payload string) []byte {
	input := []byte{
		0, // message: command
		1, // tag length
		'a',
		16, // command body: SELECT
		2,  // astring: literal
		0,  // synchronizing
		byte(len(payload)),
	}
	return append(input, payload...)
}

// IdleDoneInput returns input the arbitrary generator reads as the DONE
// line ending IDLE, a message without any leaves.
func IdleDoneInput() []byte {
	return []byte{15}
}
