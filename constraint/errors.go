package constraint

import "fmt"

// MeetError reports a meet invoked on two constraints for different
// properties. It aborts only the offending meet call.
type MeetError struct {
	Left  string
	Right string
}

func (e *MeetError) Error() string {
	return fmt.Sprintf("cannot meet constraints for different properties: %s vs %s", e.Left, e.Right)
}
