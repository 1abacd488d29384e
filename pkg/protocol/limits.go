package protocol

const (
	// MaxMessageSize is the largest encoded message Decode accepts.
	MaxMessageSize = 4 << 20

	// MaxDataDepth limits the nesting depth of message payloads.
	MaxDataDepth = 64
)

// jsonDepth returns the maximum object/array nesting depth of data, or
// max+1 as soon as the limit is crossed. Brackets inside strings are
// ignored.
func jsonDepth(data []byte, max int) int {
	depth, deepest := 0, 0
	inString, escaped := false, false
	for _, b := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{', '[':
			depth++
			if depth > deepest {
				deepest = depth
				if deepest > max {
					return deepest
				}
			}
		case '}', ']':
			depth--
		}
	}
	return deepest
}
