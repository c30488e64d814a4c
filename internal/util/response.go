package util

// Envelope is the common response shape: every payload carries a message and
// a success flag alongside operation-specific fields.
type Envelope map[string]any

func Failure(message string) Envelope {
	return Envelope{"message": message, "success": false}
}

func Success(message string, fields Envelope) Envelope {
	out := Envelope{"message": message, "success": true}
	for k, v := range fields {
		out[k] = v
	}
	return out
}
