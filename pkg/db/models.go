package db

// JoinedConversion is one frequency/conversion pair read back from a built
// dictionary database.
type JoinedConversion struct {
	Input  string
	Output string
}

// Word is a row of the flattened word list.
type Word struct {
	ID          int64
	Reading     string
	Value       string
	Probability int
}
