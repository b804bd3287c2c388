package domain

// Delimiter is the field separator of the output file.
type Delimiter int

const (
	Comma Delimiter = iota
	Tab
	Colon
	Pipe
	Semicolon
)

var delimiterNames = []string{"comma", "tab", "colon", "pipe", "semicolon"}

var delimiterBytes = []byte{',', '\t', ':', '|', ';'}

// ParseDelimiter maps a delimiter name to a Delimiter.
func ParseDelimiter(name string) (Delimiter, error) {
	for i, n := range delimiterNames {
		if n == name {
			return Delimiter(i), nil
		}
	}
	return Comma, &InvalidValueError{Value: name, Possible: delimiterNames}
}

// String returns the delimiter name as accepted by ParseDelimiter.
func (d Delimiter) String() string {
	if d < 0 || int(d) >= len(delimiterNames) {
		return "invalid"
	}
	return delimiterNames[d]
}

// Byte returns the separator character.
func (d Delimiter) Byte() byte {
	if d < 0 || int(d) >= len(delimiterBytes) {
		return ','
	}
	return delimiterBytes[d]
}

// Extension returns the conventional file extension for output using d.
func (d Delimiter) Extension() string {
	if d == Tab {
		return ".tsv"
	}
	return ".csv"
}

// Orient selects which names label the output columns.
type Orient int

const (
	// VarNames puts variable names in the header; one row per observation.
	VarNames Orient = iota
	// ObsNames puts observation names in the header; one row per variable.
	ObsNames
)

var orientNames = []string{"var-names", "obs-names"}

// ParseOrient maps "var-names" or "obs-names" to an Orient.
func ParseOrient(name string) (Orient, error) {
	switch name {
	case "var-names":
		return VarNames, nil
	case "obs-names":
		return ObsNames, nil
	}
	return VarNames, &InvalidValueError{Value: name, Possible: []string{"obs-names", "var-names"}}
}

func (o Orient) String() string {
	if o < 0 || int(o) >= len(orientNames) {
		return "invalid"
	}
	return orientNames[o]
}

// FirstColumn is the label written in the top-left header cell.
func (o Orient) FirstColumn() string {
	if o == ObsNames {
		return "gene"
	}
	return "cell"
}
